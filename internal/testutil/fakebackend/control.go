package fakebackend

import (
	"net/url"

	"ndphc-monitor/internal/model"
)

// AddUser registers a login and returns the stored user.
func (s *Server) AddUser(user model.User, password string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.id()
	}
	s.users[user.ID] = &userRecord{user: user, password: password}
	return user
}

// AddPlant seeds a plant with turbines of the given names and capacity.
func (s *Server) AddPlant(name string, capacity float64, turbineNames ...string) model.PowerPlant {
	s.mu.Lock()
	defer s.mu.Unlock()
	plant := &model.PowerPlant{ID: s.id(), Name: name, Location: name + " site", TotalCapacity: capacity}
	s.plants[plant.ID] = plant
	for _, n := range turbineNames {
		t := &model.Turbine{ID: s.id(), Name: n, Capacity: capacity / float64(len(turbineNames)), PowerPlantID: plant.ID}
		s.turbines[t.ID] = t
	}
	return s.plantWithTurbines(plant.ID)
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = append([]byte("rotated-"), s.secret...)
}

// SetOperational sets the response for one operational metric.
func (s *Server) SetOperational(data model.OperationalData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := data
	s.operational[data.Metric] = &d
}

func (s *Server) SetSummary(summary model.DashboardSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &summary
}

// Fail makes the next call to route ("GET /api/v1/power-plants/") return status and body.
func (s *Server) Fail(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, body: body}
}

// Calls returns how many times route was hit.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// LastQuery returns the query string of the latest call to route.
func (s *Server) LastQuery(route string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[route]
}

func (s *Server) DailyReport(plantID int, date string) *model.DailyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.daily {
		if r.PowerPlantID == plantID && r.Date == date {
			out := *r
			return &out
		}
	}
	return nil
}

func (s *Server) HourlyReadings(reportID string) []model.HourlyReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.HourlyReading(nil), s.hourly[reportID]...)
}

func (s *Server) MorningReading(plantID int, date string) *model.MorningReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.morning {
		if m.PowerPlantID == plantID && m.Date == date {
			out := *m
			return &out
		}
	}
	return nil
}
