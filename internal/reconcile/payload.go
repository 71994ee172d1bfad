package reconcile

import "ndphc-monitor/internal/model"

// DeclarationsPayload emits all 24 hours for every turbine row.
func DeclarationsPayload(g *Grid) []model.TurbineDeclaration {
	out := make([]model.TurbineDeclaration, 0, g.Rows())
	for row, id := range g.turbines {
		decl := model.TurbineDeclaration{
			TurbineID:          id,
			HourlyDeclarations: make([]model.HourlyDeclaration, model.Hours),
		}
		for h := 0; h < model.Hours; h++ {
			decl.HourlyDeclarations[h] = model.HourlyDeclaration{Hour: h + 1, DeclaredOutput: g.cells[row][h]}
		}
		out = append(out, decl)
	}
	return out
}

// ChangedReadings returns the cells worth sending: every positive value, plus
// cells whose stored reading was positive so a clear back to 0 reaches the server.
func ChangedReadings(g *Grid, server []model.HourlyReading) []model.HourlyReadingInput {
	stored := make(map[[2]int]bool, len(server))
	for _, r := range server {
		if r.EnergyGenerated > 0 {
			stored[[2]int{r.TurbineID, r.Hour}] = true
		}
	}

	var out []model.HourlyReadingInput
	g.Each(func(turbineID, hour int, v float64) {
		if v > 0 || stored[[2]int{turbineID, hour}] {
			out = append(out, model.HourlyReadingInput{TurbineID: turbineID, Hour: hour, EnergyGenerated: v})
		}
	})
	return out
}
