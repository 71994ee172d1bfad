package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/model"

	"golang.org/x/sync/errgroup"
)

// AdminDashboard computes fleet statistics from the user and plant lists.
type AdminDashboard struct {
	state
	api *backend.API

	stats  *model.AdminStats
	plants []model.PowerPlant
}

func NewAdminDashboard(api *backend.API) *AdminDashboard {
	return &AdminDashboard{api: api}
}

func (a *AdminDashboard) Stats() *model.AdminStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

func (a *AdminDashboard) PowerPlants() []model.PowerPlant {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]model.PowerPlant(nil), a.plants...)
}

// FetchStats loads users and plants concurrently.
func (a *AdminDashboard) FetchStats(ctx context.Context) (*model.AdminStats, error) {
	a.begin()

	var (
		users  []model.User
		plants []model.PowerPlant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = a.api.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		plants, err = a.api.ListPowerPlants(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, a.fail(err)
	}

	stats := ComputeStats(users, plants)
	a.mu.Lock()
	a.stats = stats
	a.isLoading = false
	a.mu.Unlock()
	return stats, nil
}

// ComputeStats counts users by role with capitalized role names, sorted by name.
func ComputeStats(users []model.User, plants []model.PowerPlant) *model.AdminStats {
	stats := &model.AdminStats{}
	stats.Users.Total = len(users)

	byRole := map[string]int{}
	for _, u := range users {
		if u.IsActive {
			stats.Users.Active++
		}
		byRole[string(u.Role)]++
	}
	stats.Users.ByRole = []model.RoleCount{}
	for role, n := range byRole {
		stats.Users.ByRole = append(stats.Users.ByRole, model.RoleCount{Name: capitalize(role), Value: n})
	}
	sort.Slice(stats.Users.ByRole, func(i, j int) bool {
		return stats.Users.ByRole[i].Name < stats.Users.ByRole[j].Name
	})

	stats.PowerPlants.Total = len(plants)
	for _, p := range plants {
		stats.PowerPlants.TotalCapacity += p.TotalCapacity
		stats.Turbines.Total += p.TurbineCount
	}
	return stats
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a *AdminDashboard) FetchPlantsForExport(ctx context.Context) error {
	plants, err := a.api.ListPowerPlants(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.mu.Lock()
	a.plants = plants
	a.mu.Unlock()
	return nil
}

// Export returns the spreadsheet bytes and the server's filename.
func (a *AdminDashboard) Export(ctx context.Context, params backend.ExportParams) ([]byte, string, error) {
	data, name, err := a.api.Export(ctx, params)
	if err != nil {
		return nil, "", a.fail(err)
	}
	return data, name, nil
}

// Export range presets.
const (
	RangeAll         = "all"
	RangeWeek        = "week"
	RangeMonth       = "month"
	RangeThreeMonths = "3month"
	RangeSixMonths   = "6month"
	RangeYear        = "year"
	RangeCustom      = "custom"
)

// ExportRange resolves a preset to start and end dates ending at now. "all"
// starts at the Unix epoch. A custom range without both bounds falls back to
// the last 7 days, as do unknown presets.
func ExportRange(preset string, now time.Time, customFrom, customTo *time.Time) (string, string) {
	from := now.AddDate(0, 0, -7)
	to := now
	switch preset {
	case RangeAll:
		from = time.Unix(0, 0).In(now.Location())
	case RangeWeek:
	case RangeMonth:
		from = subMonths(now, 1)
	case RangeThreeMonths:
		from = subMonths(now, 3)
	case RangeSixMonths:
		from = subMonths(now, 6)
	case RangeYear:
		from = subMonths(now, 12)
	case RangeCustom:
		if customFrom != nil && customTo != nil {
			from, to = *customFrom, *customTo
		}
	}
	return model.FormatDate(from), model.FormatDate(to)
}

// subMonths clamps to the last day of the target month, so May 31 minus one
// month is April 30 rather than May 1.
func subMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, -n, 0)
	last := target.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return target.AddDate(0, 0, day-1)
}
