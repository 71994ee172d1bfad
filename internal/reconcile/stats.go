package reconcile

import "ndphc-monitor/internal/model"

// StatRows is the daily report's per-turbine stat form, keyed by turbine id.
type StatRows struct {
	order []int
	rows  map[int]*model.TurbineStat
}

func NewStatRows(turbines []model.Turbine) *StatRows {
	s := &StatRows{rows: make(map[int]*model.TurbineStat, len(turbines))}
	for _, t := range turbines {
		s.order = append(s.order, t.ID)
		s.rows[t.ID] = &model.TurbineStat{TurbineID: t.ID}
	}
	return s
}

// Overlay copies stored stats onto matching rows and returns how many matched.
func (s *StatRows) Overlay(stats []model.TurbineStat) int {
	matched := 0
	for _, st := range stats {
		if _, ok := s.rows[st.TurbineID]; ok {
			v := st
			s.rows[st.TurbineID] = &v
			matched++
		}
	}
	return matched
}

// Set reports false for a turbine not in the plant.
func (s *StatRows) Set(stat model.TurbineStat) bool {
	if _, ok := s.rows[stat.TurbineID]; !ok {
		return false
	}
	v := stat
	s.rows[stat.TurbineID] = &v
	return true
}

func (s *StatRows) Get(turbineID int) (model.TurbineStat, bool) {
	row, ok := s.rows[turbineID]
	if !ok {
		return model.TurbineStat{}, false
	}
	return *row, true
}

// Rows returns the stats in turbine order.
func (s *StatRows) Rows() []model.TurbineStat {
	out := make([]model.TurbineStat, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.rows[id])
	}
	return out
}

func (s *StatRows) TotalGenerated() float64 {
	var total float64
	for _, id := range s.order {
		total += s.rows[id].EnergyGenerated
	}
	return total
}

func (s *StatRows) TotalExported() float64 {
	var total float64
	for _, id := range s.order {
		total += s.rows[id].EnergyExported
	}
	return total
}

// FillGeneratedFromGrid sets each row's energy_generated to its hourly subtotal.
func (s *StatRows) FillGeneratedFromGrid(g *Grid) {
	for _, id := range s.order {
		s.rows[id].EnergyGenerated = g.TurbineTotal(id)
	}
}
