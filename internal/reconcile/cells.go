package reconcile

import (
	"fmt"
	"time"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/policy"
)

type CellState int

const (
	Editable CellState = iota
	HasData
	Locked
)

func (s CellState) String() string {
	switch s {
	case HasData:
		return "has_data"
	case Locked:
		return "locked"
	}
	return "editable"
}

func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CellState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "editable":
		*s = Editable
	case "has_data":
		*s = HasData
	case "locked":
		*s = Locked
	default:
		return fmt.Errorf("unknown cell state %q", text)
	}
	return nil
}

// CellStateOf reads the live grid value, so typing into one cell never changes
// the state of another. A cell is locked when it holds a nonzero value and the
// record is no longer editable by role.
func CellStateOf(g *Grid, turbineID, hour int, rec policy.Deadlined, role model.Role, now time.Time) CellState {
	if g.Value(turbineID, hour) == 0 {
		return Editable
	}
	if !policy.IsEditable(rec, role, now) {
		return Locked
	}
	return HasData
}

// CellStates evaluates every cell, keyed by turbine id with hour-1 indexes.
func CellStates(g *Grid, rec policy.Deadlined, role model.Role, now time.Time) map[int][]CellState {
	out := make(map[int][]CellState, g.Rows())
	for _, id := range g.turbines {
		out[id] = make([]CellState, model.Hours)
	}
	g.Each(func(turbineID, hour int, _ float64) {
		out[turbineID][hour-1] = CellStateOf(g, turbineID, hour, rec, role, now)
	})
	return out
}
