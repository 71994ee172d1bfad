package reconcile

import "ndphc-monitor/internal/model"

// Entry is one (turbine, hour) value from a server record.
type Entry struct {
	TurbineID int
	Hour      int
	Value     float64
}

// Grid is a turbine × hour form model. Rows follow the plant's current turbine
// list, every cell holds a number and 0 means "no data". Totals are computed
// from the cells on each call.
type Grid struct {
	turbines []int
	index    map[int]int
	cells    [][model.Hours]float64
}

// NewGrid keeps the first occurrence of a repeated turbine id.
func NewGrid(turbineIDs []int) *Grid {
	g := &Grid{index: make(map[int]int, len(turbineIDs))}
	for _, id := range turbineIDs {
		if _, ok := g.index[id]; ok {
			continue
		}
		g.index[id] = len(g.turbines)
		g.turbines = append(g.turbines, id)
	}
	g.cells = make([][model.Hours]float64, len(g.turbines))
	return g
}

func (g *Grid) Turbines() []int {
	return append([]int(nil), g.turbines...)
}

func (g *Grid) Rows() int {
	return len(g.turbines)
}

func (g *Grid) cell(turbineID, hour int) (*float64, bool) {
	row, ok := g.index[turbineID]
	if !ok || hour < 1 || hour > model.Hours {
		return nil, false
	}
	return &g.cells[row][hour-1], true
}

// Value is 0 for unknown turbines or hours.
func (g *Grid) Value(turbineID, hour int) float64 {
	if c, ok := g.cell(turbineID, hour); ok {
		return *c
	}
	return 0
}

// Set reports false when the cell is outside the grid.
func (g *Grid) Set(turbineID, hour int, v float64) bool {
	c, ok := g.cell(turbineID, hour)
	if !ok {
		return false
	}
	*c = v
	return true
}

// Row returns a copy of the turbine's 24 cells.
func (g *Grid) Row(turbineID int) []float64 {
	row, ok := g.index[turbineID]
	if !ok {
		return nil
	}
	out := make([]float64, model.Hours)
	copy(out, g.cells[row][:])
	return out
}

// Overlay writes entries onto the grid by (turbine, hour). Entries for
// turbines no longer in the plant, or for hours outside 1..24, are ignored.
// It returns the number of cells written.
func (g *Grid) Overlay(entries []Entry) int {
	written := 0
	for _, e := range entries {
		if g.Set(e.TurbineID, e.Hour, e.Value) {
			written++
		}
	}
	return written
}

func (g *Grid) TurbineTotal(turbineID int) float64 {
	row, ok := g.index[turbineID]
	if !ok {
		return 0
	}
	var total float64
	for _, v := range g.cells[row] {
		total += v
	}
	return total
}

func (g *Grid) GrandTotal() float64 {
	var total float64
	for _, id := range g.turbines {
		total += g.TurbineTotal(id)
	}
	return total
}

// Each calls fn for every cell in turbine then hour order.
func (g *Grid) Each(fn func(turbineID, hour int, v float64)) {
	for row, id := range g.turbines {
		for h := 0; h < model.Hours; h++ {
			fn(id, h+1, g.cells[row][h])
		}
	}
}

func DeclarationEntries(records []model.HourlyDeclarationRecord) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{TurbineID: r.TurbineID, Hour: r.Hour, Value: r.DeclaredOutput}
	}
	return entries
}

func ReadingEntries(readings []model.HourlyReading) []Entry {
	entries := make([]Entry, len(readings))
	for i, r := range readings {
		entries[i] = Entry{TurbineID: r.TurbineID, Hour: r.Hour, Value: r.EnergyGenerated}
	}
	return entries
}
