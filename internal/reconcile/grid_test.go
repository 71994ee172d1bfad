package reconcile

import (
	"testing"
	"time"

	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_AllZero(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = 10 + i
		}
		g := NewGrid(ids)
		assert.Equal(t, n, g.Rows())

		cells := 0
		g.Each(func(_, _ int, v float64) {
			cells++
			assert.Zero(t, v)
		})
		assert.Equal(t, n*model.Hours, cells)
	}
}

func TestGridOverlay(t *testing.T) {
	g := NewGrid([]int{1, 2, 3})
	records := []model.HourlyDeclarationRecord{
		{TurbineID: 1, Hour: 1, DeclaredOutput: 10},
		{TurbineID: 1, Hour: 24, DeclaredOutput: 12.5},
		{TurbineID: 3, Hour: 7, DeclaredOutput: 4},
	}

	written := g.Overlay(DeclarationEntries(records))
	assert.Equal(t, len(records), written)

	nonzero := 0
	g.Each(func(_, _ int, v float64) {
		if v != 0 {
			nonzero++
		}
	})
	assert.Equal(t, len(records), nonzero)

	assert.Equal(t, 22.5, g.TurbineTotal(1))
	assert.Zero(t, g.TurbineTotal(2))
	assert.Equal(t, 4.0, g.TurbineTotal(3))
	assert.Equal(t, 26.5, g.GrandTotal())
}

func TestGridOverlay_IgnoresRemovedTurbinesAndBadHours(t *testing.T) {
	g := NewGrid([]int{1})
	written := g.Overlay([]Entry{
		{TurbineID: 99, Hour: 1, Value: 5},
		{TurbineID: 1, Hour: 0, Value: 5},
		{TurbineID: 1, Hour: 25, Value: 5},
		{TurbineID: 1, Hour: 2, Value: 5},
	})
	assert.Equal(t, 1, written)
	assert.Equal(t, 5.0, g.GrandTotal())
	assert.Nil(t, g.Row(99))
	assert.Zero(t, g.Value(99, 1))
}

func TestNewGrid_RepeatedTurbine(t *testing.T) {
	g := NewGrid([]int{1, 2, 1})
	assert.Equal(t, []int{1, 2}, g.Turbines())
	assert.Equal(t, 2, g.Rows())

	require.True(t, g.Set(1, 1, 5))
	assert.Equal(t, 5.0, g.Value(1, 1))
	assert.Equal(t, 5.0, g.TurbineTotal(1))
	assert.Equal(t, 5.0, g.GrandTotal())
}

func TestCellStateText(t *testing.T) {
	for _, s := range []CellState{Editable, HasData, Locked} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var got CellState
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var s CellState
	assert.Error(t, s.UnmarshalText([]byte("frozen")))
}

func TestGridTotalsFollowLiveCells(t *testing.T) {
	g := NewGrid([]int{1, 2})
	g.Set(1, 3, 7)
	assert.Equal(t, 7.0, g.GrandTotal())
	g.Set(1, 3, 2)
	g.Set(2, 3, 1)
	assert.Equal(t, 2.0, g.TurbineTotal(1))
	assert.Equal(t, 3.0, g.GrandTotal())
}

func TestCellStateOf(t *testing.T) {
	now := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	past := &model.DailyReport{SubmissionDeadline: &model.Timestamp{Time: now.Add(-time.Hour)}}
	future := &model.DailyReport{SubmissionDeadline: &model.Timestamp{Time: now.Add(time.Hour)}}

	g := NewGrid([]int{1})
	g.Set(1, 1, 5)

	assert.Equal(t, Locked, CellStateOf(g, 1, 1, past, model.RoleOperator, now))
	assert.Equal(t, HasData, CellStateOf(g, 1, 1, past, model.RoleEditor, now))
	assert.Equal(t, HasData, CellStateOf(g, 1, 1, future, model.RoleOperator, now))
	assert.Equal(t, Editable, CellStateOf(g, 1, 2, past, model.RoleOperator, now))
	assert.Equal(t, HasData, CellStateOf(g, 1, 1, nil, model.RoleOperator, now))

	// typing into an empty cell leaves other cells unchanged
	g.Set(1, 2, 3)
	assert.Equal(t, Locked, CellStateOf(g, 1, 2, past, model.RoleOperator, now))
	assert.Equal(t, Locked, CellStateOf(g, 1, 1, past, model.RoleOperator, now))
	assert.Equal(t, Editable, CellStateOf(g, 1, 3, past, model.RoleOperator, now))

	states := CellStates(g, past, model.RoleOperator, now)
	require.Len(t, states[1], model.Hours)
	assert.Equal(t, Locked, states[1][0])
	assert.Equal(t, Editable, states[1][23])
}

func TestDeclarationsPayload(t *testing.T) {
	g := NewGrid([]int{4, 2})
	g.Set(2, 5, 9)

	payload := DeclarationsPayload(g)
	require.Len(t, payload, 2)
	assert.Equal(t, 4, payload[0].TurbineID)
	assert.Equal(t, 2, payload[1].TurbineID)
	require.Len(t, payload[1].HourlyDeclarations, model.Hours)
	assert.Equal(t, model.HourlyDeclaration{Hour: 5, DeclaredOutput: 9}, payload[1].HourlyDeclarations[4])
	assert.Equal(t, 1, payload[0].HourlyDeclarations[0].Hour)
}

func TestChangedReadings(t *testing.T) {
	g := NewGrid([]int{1, 2})
	server := []model.HourlyReading{
		{TurbineID: 1, Hour: 1, EnergyGenerated: 8},
		{TurbineID: 2, Hour: 2, EnergyGenerated: 0},
	}
	g.Overlay(ReadingEntries(server))
	g.Set(1, 1, 0) // cleared by the user
	g.Set(2, 3, 6)

	changed := ChangedReadings(g, server)
	assert.Equal(t, []model.HourlyReadingInput{
		{TurbineID: 1, Hour: 1, EnergyGenerated: 0},
		{TurbineID: 2, Hour: 3, EnergyGenerated: 6},
	}, changed)

	assert.Empty(t, ChangedReadings(NewGrid([]int{1}), nil))
}

func TestStatRows(t *testing.T) {
	rows := NewStatRows([]model.Turbine{{ID: 1}, {ID: 2}})
	matched := rows.Overlay([]model.TurbineStat{
		{TurbineID: 2, EnergyGenerated: 40, EnergyExported: 38, Trips: 1},
		{TurbineID: 9, EnergyGenerated: 100},
	})
	assert.Equal(t, 1, matched)

	got := rows.Rows()
	require.Len(t, got, 2)
	assert.Equal(t, model.TurbineStat{TurbineID: 1}, got[0])
	assert.Equal(t, 1, got[1].Trips)
	assert.Equal(t, 40.0, rows.TotalGenerated())
	assert.Equal(t, 38.0, rows.TotalExported())

	assert.False(t, rows.Set(model.TurbineStat{TurbineID: 9}))

	g := NewGrid([]int{1, 2})
	g.Set(1, 1, 3)
	g.Set(1, 2, 4)
	rows.FillGeneratedFromGrid(g)
	st, ok := rows.Get(1)
	require.True(t, ok)
	assert.Equal(t, 7.0, st.EnergyGenerated)
	assert.Equal(t, 7.0, rows.TotalGenerated())
}
