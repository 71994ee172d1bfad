package store

import (
	"context"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/model"
)

type Users struct {
	state
	api *backend.API

	users  []model.User
	plants []model.PowerPlant
}

func NewUsers(api *backend.API) *Users {
	return &Users{api: api}
}

func (u *Users) Users() []model.User {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]model.User(nil), u.users...)
}

// PowerPlants is the assignment list for the user form.
func (u *Users) PowerPlants() []model.PowerPlant {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]model.PowerPlant(nil), u.plants...)
}

func (u *Users) Fetch(ctx context.Context) error {
	u.begin()
	users, err := u.api.ListUsers(ctx)
	if err != nil {
		return u.fail(err)
	}
	u.mu.Lock()
	u.users = users
	u.isLoading = false
	u.mu.Unlock()
	return nil
}

func (u *Users) FetchPowerPlants(ctx context.Context) error {
	plants, err := u.api.ListPowerPlants(ctx)
	if err != nil {
		return u.fail(err)
	}
	u.mu.Lock()
	u.plants = plants
	u.mu.Unlock()
	return nil
}

func (u *Users) Create(ctx context.Context, in model.UserCreate) (*model.User, error) {
	user, err := u.api.CreateUser(ctx, in)
	if err != nil {
		return nil, u.fail(err)
	}
	u.mu.Lock()
	u.users = append(u.users, *user)
	u.mu.Unlock()
	return user, nil
}

func (u *Users) Update(ctx context.Context, id int, in model.UserUpdate) (*model.User, error) {
	user, err := u.api.UpdateUser(ctx, id, in)
	if err != nil {
		return nil, u.fail(err)
	}
	u.mu.Lock()
	updated := make([]model.User, len(u.users))
	for i, existing := range u.users {
		if existing.ID == id {
			updated[i] = *user
		} else {
			updated[i] = existing
		}
	}
	u.users = updated
	u.mu.Unlock()
	return user, nil
}

func (u *Users) Delete(ctx context.Context, id int) error {
	if err := u.api.DeleteUser(ctx, id); err != nil {
		return u.fail(err)
	}
	u.mu.Lock()
	kept := make([]model.User, 0, len(u.users))
	for _, existing := range u.users {
		if existing.ID != id {
			kept = append(kept, existing)
		}
	}
	u.users = kept
	u.mu.Unlock()
	return nil
}
