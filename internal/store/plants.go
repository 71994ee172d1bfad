package store

import (
	"context"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/model"
)

// PowerPlants caches plants and, per plant, its turbines.
type PowerPlants struct {
	state
	api         *backend.API
	currentUser func() *model.User

	plants     []model.PowerPlant
	turbines   map[int][]model.Turbine
	selectedID int
	expandedID int
}

// NewPowerPlants takes the acting user, used to default the selected plant.
func NewPowerPlants(api *backend.API, currentUser func() *model.User) *PowerPlants {
	return &PowerPlants{
		api:         api,
		currentUser: currentUser,
		turbines:    map[int][]model.Turbine{},
	}
}

func (p *PowerPlants) Plants() []model.PowerPlant {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.PowerPlant(nil), p.plants...)
}

func (p *PowerPlants) Plant(id int) (model.PowerPlant, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, plant := range p.plants {
		if plant.ID == id {
			return plant, true
		}
	}
	return model.PowerPlant{}, false
}

// PlantByName is used where views key plants by name.
func (p *PowerPlants) PlantByName(name string) (model.PowerPlant, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, plant := range p.plants {
		if plant.Name == name {
			return plant, true
		}
	}
	return model.PowerPlant{}, false
}

// Turbines returns the list fetched with FetchTurbines, or nil.
func (p *PowerPlants) Turbines(plantID int) []model.Turbine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.Turbine(nil), p.turbines[plantID]...)
}

func (p *PowerPlants) SelectedPlantID() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selectedID
}

func (p *PowerPlants) Select(id int) {
	p.mu.Lock()
	p.selectedID = id
	p.mu.Unlock()
}

func (p *PowerPlants) ExpandedPlantID() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.expandedID
}

func (p *PowerPlants) SetExpanded(id int) {
	p.mu.Lock()
	p.expandedID = id
	p.mu.Unlock()
}

// Fetch replaces the plant list. The selection becomes the user's plant, else
// the previous selection, else the first plant.
func (p *PowerPlants) Fetch(ctx context.Context) error {
	p.begin()
	plants, err := p.api.ListPowerPlants(ctx)
	if err != nil {
		return p.fail(err)
	}

	var userPlant int
	if p.currentUser != nil {
		if u := p.currentUser(); u != nil && u.PowerPlantID != nil {
			userPlant = *u.PowerPlantID
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.plants = plants
	switch {
	case userPlant != 0:
		p.selectedID = userPlant
	case p.selectedID != 0:
	case len(plants) > 0:
		p.selectedID = plants[0].ID
	}
	p.isLoading = false
	return nil
}

// FetchTurbines loads the plant's turbines into the per-plant map.
func (p *PowerPlants) FetchTurbines(ctx context.Context, plantID int) ([]model.Turbine, error) {
	p.begin()
	plant, err := p.api.GetPowerPlant(ctx, plantID)
	if err != nil {
		return nil, p.fail(err)
	}

	turbines := plant.Turbines
	if turbines == nil {
		turbines = []model.Turbine{}
	}
	p.mu.Lock()
	p.turbines[plantID] = turbines
	p.isLoading = false
	p.mu.Unlock()
	return append([]model.Turbine(nil), turbines...), nil
}

// FetchPlantDetails populates the nested turbine list and expands the plant.
func (p *PowerPlants) FetchPlantDetails(ctx context.Context, plantID int) (*model.PowerPlant, error) {
	details, err := p.api.GetPowerPlant(ctx, plantID)
	if err != nil {
		return nil, p.fail(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.plants {
		if p.plants[i].ID == plantID {
			p.plants[i].Turbines = details.Turbines
		}
	}
	p.turbines[plantID] = details.Turbines
	p.expandedID = plantID
	return details, nil
}

func (p *PowerPlants) Create(ctx context.Context, in model.PowerPlantInput) (*model.PowerPlant, error) {
	plant, err := p.api.CreatePowerPlant(ctx, in)
	if err != nil {
		return nil, p.fail(err)
	}

	cached := *plant
	cached.Turbines = []model.Turbine{}
	p.mu.Lock()
	p.plants = append(p.plants, cached)
	p.mu.Unlock()
	return plant, nil
}

// Update keeps the cached turbine list of the plant.
func (p *PowerPlants) Update(ctx context.Context, id int, in model.PowerPlantInput) (*model.PowerPlant, error) {
	plant, err := p.api.UpdatePowerPlant(ctx, id, in)
	if err != nil {
		return nil, p.fail(err)
	}

	p.mu.Lock()
	for i := range p.plants {
		if p.plants[i].ID == id {
			updated := *plant
			updated.Turbines = p.plants[i].Turbines
			p.plants[i] = updated
		}
	}
	p.mu.Unlock()
	return plant, nil
}

func (p *PowerPlants) Delete(ctx context.Context, id int) error {
	if err := p.api.DeletePowerPlant(ctx, id); err != nil {
		return p.fail(err)
	}

	p.mu.Lock()
	kept := p.plants[:0:0]
	for _, plant := range p.plants {
		if plant.ID != id {
			kept = append(kept, plant)
		}
	}
	p.plants = kept
	delete(p.turbines, id)
	if p.expandedID == id {
		p.expandedID = 0
	}
	p.mu.Unlock()
	return nil
}

func (p *PowerPlants) CreateTurbine(ctx context.Context, plantID int, in model.TurbineInput) (*model.Turbine, error) {
	turbine, err := p.api.CreateTurbine(ctx, plantID, in)
	if err != nil {
		return nil, p.fail(err)
	}

	p.mu.Lock()
	for i := range p.plants {
		if p.plants[i].ID == plantID {
			p.plants[i].Turbines = append(append([]model.Turbine(nil), p.plants[i].Turbines...), *turbine)
		}
	}
	if list, ok := p.turbines[plantID]; ok {
		p.turbines[plantID] = append(append([]model.Turbine(nil), list...), *turbine)
	}
	p.mu.Unlock()
	return turbine, nil
}

func (p *PowerPlants) UpdateTurbine(ctx context.Context, turbineID int, in model.TurbineInput) (*model.Turbine, error) {
	turbine, err := p.api.UpdateTurbine(ctx, turbineID, in)
	if err != nil {
		return nil, p.fail(err)
	}

	p.mu.Lock()
	for i := range p.plants {
		p.plants[i].Turbines = replaceTurbine(p.plants[i].Turbines, *turbine)
	}
	for plantID, list := range p.turbines {
		p.turbines[plantID] = replaceTurbine(list, *turbine)
	}
	p.mu.Unlock()
	return turbine, nil
}

func (p *PowerPlants) DeleteTurbine(ctx context.Context, turbineID, plantID int) error {
	if err := p.api.DeleteTurbine(ctx, turbineID); err != nil {
		return p.fail(err)
	}

	p.mu.Lock()
	for i := range p.plants {
		if p.plants[i].ID == plantID && p.plants[i].Turbines != nil {
			p.plants[i].Turbines = removeTurbine(p.plants[i].Turbines, turbineID)
		}
	}
	if list, ok := p.turbines[plantID]; ok {
		p.turbines[plantID] = removeTurbine(list, turbineID)
	}
	p.mu.Unlock()
	return nil
}

func replaceTurbine(list []model.Turbine, t model.Turbine) []model.Turbine {
	if list == nil {
		return nil
	}
	out := make([]model.Turbine, len(list))
	for i, existing := range list {
		if existing.ID == t.ID {
			out[i] = t
		} else {
			out[i] = existing
		}
	}
	return out
}

func removeTurbine(list []model.Turbine, id int) []model.Turbine {
	out := make([]model.Turbine, 0, len(list))
	for _, t := range list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
