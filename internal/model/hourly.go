package model

// HourlyReading always belongs to a daily report.
type HourlyReading struct {
	ID              string  `json:"id"`
	DailyReportID   string  `json:"daily_report_id"`
	TurbineID       int     `json:"turbine_id"`
	Hour            int     `json:"hour"`
	EnergyGenerated float64 `json:"energy_generated"`
}

type HourlyReadingInput struct {
	TurbineID       int     `json:"turbine_id"`
	Hour            int     `json:"hour"`
	EnergyGenerated float64 `json:"energy_generated"`
}

type HourlyReadingsUpdate struct {
	Readings []HourlyReadingInput `json:"readings"`
}
