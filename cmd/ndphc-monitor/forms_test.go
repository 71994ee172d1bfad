package main

import (
	"bytes"
	"testing"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellArg(t *testing.T) {
	e, err := cellArg("12:7=42.5")
	require.NoError(t, err)
	assert.Equal(t, reconcile.Entry{TurbineID: 12, Hour: 7, Value: 42.5}, e)

	for _, bad := range []string{"12:7", "12=4", "x:7=1", "12:y=1", "12:7=z"} {
		_, err := cellArg(bad)
		assert.Error(t, err, bad)
	}
}

type fixedGrid struct {
	turbines []model.Turbine
	rows     map[int][]float64
}

func (g fixedGrid) Turbines() []model.Turbine { return g.turbines }
func (g fixedGrid) Row(turbineID int) []float64 { return g.rows[turbineID] }

func (g fixedGrid) TurbineTotal(turbineID int) float64 {
	var total float64
	for _, v := range g.rows[turbineID] {
		total += v
	}
	return total
}

func (g fixedGrid) GrandTotal() float64 {
	var total float64
	for id := range g.rows {
		total += g.TurbineTotal(id)
	}
	return total
}

func TestPrintGrid(t *testing.T) {
	row := make([]float64, model.Hours)
	row[0] = 10
	row[1] = 5
	g := fixedGrid{
		turbines: []model.Turbine{{ID: 1, Name: "GT1"}},
		rows:     map[int][]float64{1: row},
	}
	states := map[int][]reconcile.CellState{1: make([]reconcile.CellState, model.Hours)}
	states[1][0] = reconcile.Locked

	var buf bytes.Buffer
	require.NoError(t, printGrid(&buf, g, states))

	out := buf.String()
	assert.Contains(t, out, "HOUR   GT1")
	assert.Contains(t, out, "10*")
	assert.Contains(t, out, "TOTAL  15")
	assert.Contains(t, out, "Grand total: 15 MWh")
}

func TestParseID(t *testing.T) {
	id, err := parseID("7")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	_, err = parseID("0")
	assert.Error(t, err)
	_, err = parseID("seven")
	assert.Error(t, err)
}
