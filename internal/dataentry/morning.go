package dataentry

import (
	"context"
	"time"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/policy"
	"ndphc-monitor/internal/reconcile"
	"ndphc-monitor/internal/store"
)

// Morning is the hourly declaration form for one plant-day.
type Morning struct {
	target
	plants   *store.PowerPlants
	readings *store.MorningReadings

	turbines             []model.Turbine
	grid                 *reconcile.Grid
	declarationTotal     float64
	availabilityCapacity float64
}

func NewMorning(plants *store.PowerPlants, readings *store.MorningReadings) *Morning {
	return &Morning{plants: plants, readings: readings, grid: reconcile.NewGrid(nil)}
}

// Load fetches the plant's turbines, then the reading. With no reading the
// form is in create mode with every cell at 0.
func (m *Morning) Load(ctx context.Context, plantID int, date string) error {
	turbines, err := m.plants.FetchTurbines(ctx, plantID)
	if err != nil {
		return err
	}
	m.readings.Reset()
	reading, err := m.readings.Fetch(ctx, plantID, date)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.plantID, m.date, m.loaded = plantID, date, true
	m.turbines = turbines
	m.reset(reading)
	return nil
}

// reset expects m.mu to be held.
func (m *Morning) reset(reading *model.MorningReading) {
	m.grid = reconcile.NewGrid(model.TurbineIDs(m.turbines))
	m.declarationTotal, m.availabilityCapacity = 0, 0
	if reading != nil {
		m.grid.Overlay(reconcile.DeclarationEntries(reading.HourlyDeclarations))
		m.declarationTotal = reading.DeclarationTotal
		m.availabilityCapacity = reading.AvailabilityCapacity
	}
}

func (m *Morning) Turbines() []model.Turbine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Turbine(nil), m.turbines...)
}

// Reading is nil in create mode.
func (m *Morning) Reading() *model.MorningReading {
	return m.readings.CurrentReading()
}

func (m *Morning) IsUpdate() bool {
	return m.Reading() != nil
}

func (m *Morning) Set(turbineID, hour int, v float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid.Set(turbineID, hour, v)
}

func (m *Morning) Value(turbineID, hour int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grid.Value(turbineID, hour)
}

func (m *Morning) Row(turbineID int) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grid.Row(turbineID)
}

func (m *Morning) TurbineTotal(turbineID int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grid.TurbineTotal(turbineID)
}

func (m *Morning) GrandTotal() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grid.GrandTotal()
}

func (m *Morning) SetTotals(declarationTotal, availabilityCapacity float64) {
	m.mu.Lock()
	m.declarationTotal = declarationTotal
	m.availabilityCapacity = availabilityCapacity
	m.mu.Unlock()
}

func (m *Morning) Totals() (declarationTotal, availabilityCapacity float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.declarationTotal, m.availabilityCapacity
}

func (m *Morning) CellStates(role model.Role, now time.Time) map[int][]reconcile.CellState {
	rec := m.Reading()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return reconcile.CellStates(m.grid, rec, role, now)
}

func (m *Morning) Capabilities(role model.Role, now time.Time) policy.Capabilities {
	return policy.Resolve(role, m.Reading(), now)
}

// Submit sends every turbine's 24 hours, creating or updating the reading,
// then re-fetches it and rebuilds the form from the server's copy.
func (m *Morning) Submit(ctx context.Context) (*model.MorningReading, error) {
	m.mu.RLock()
	if !m.loaded {
		m.mu.RUnlock()
		return nil, ErrNotLoaded
	}
	plantID, date := m.plantID, m.date
	declarations := reconcile.DeclarationsPayload(m.grid)
	declarationTotal, availability := m.declarationTotal, m.availabilityCapacity
	m.mu.RUnlock()

	if current := m.Reading(); current != nil {
		_, err := m.readings.Update(ctx, current.ID, model.MorningReadingUpdate{
			PowerPlantID:         plantID,
			DeclarationTotal:     declarationTotal,
			AvailabilityCapacity: availability,
			TurbineDeclarations:  declarations,
		})
		if err != nil {
			return nil, err
		}
	} else {
		_, err := m.readings.Create(ctx, model.MorningReadingCreate{
			Date:                 date,
			PowerPlantID:         plantID,
			DeclarationTotal:     declarationTotal,
			AvailabilityCapacity: availability,
			TurbineDeclarations:  declarations,
		})
		if err != nil {
			return nil, err
		}
	}

	reading, err := m.readings.Fetch(ctx, plantID, date)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.reset(reading)
	m.mu.Unlock()
	return reading, nil
}
