package model

import "time"

type HourlyDeclaration struct {
	Hour           int     `json:"hour"`
	DeclaredOutput float64 `json:"declared_output"`
}

type HourlyDeclarationRecord struct {
	ID               string  `json:"id"`
	TurbineID        int     `json:"turbine_id"`
	MorningReadingID string  `json:"morning_reading_id"`
	Hour             int     `json:"hour"`
	DeclaredOutput   float64 `json:"declared_output"`
}

type TurbineDeclaration struct {
	TurbineID          int                 `json:"turbine_id"`
	HourlyDeclarations []HourlyDeclaration `json:"hourly_declarations"`
}

// MorningReading is unique per (power_plant_id, date).
type MorningReading struct {
	ID                   string                    `json:"id"`
	Date                 string                    `json:"date"`
	PowerPlantID         int                       `json:"power_plant_id"`
	UserID               int                       `json:"user_id"`
	DeclarationTotal     float64                   `json:"declaration_total"`
	AvailabilityCapacity float64                   `json:"availability_capacity"`
	SubmissionDeadline   *Timestamp                `json:"submission_deadline"`
	IsLateSubmission     *bool                     `json:"is_late_submission"`
	LastModifiedByID     *int                      `json:"last_modified_by_id"`
	HourlyDeclarations   []HourlyDeclarationRecord `json:"hourly_declarations"`
}

func (m *MorningReading) Deadline() *time.Time {
	if m == nil {
		return nil
	}
	return m.SubmissionDeadline.Ptr()
}

type MorningReadingCreate struct {
	Date                 string               `json:"date"`
	PowerPlantID         int                  `json:"power_plant_id"`
	DeclarationTotal     float64              `json:"declaration_total"`
	AvailabilityCapacity float64              `json:"availability_capacity"`
	TurbineDeclarations  []TurbineDeclaration `json:"turbine_declarations"`
}

// MorningReadingUpdate carries no date; a reading never moves between days.
type MorningReadingUpdate struct {
	PowerPlantID         int                  `json:"power_plant_id"`
	DeclarationTotal     float64              `json:"declaration_total"`
	AvailabilityCapacity float64              `json:"availability_capacity"`
	TurbineDeclarations  []TurbineDeclaration `json:"turbine_declarations"`
}
