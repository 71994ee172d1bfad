// Package store holds client-side caches of backend entities.
//
// A store replaces its collection on fetch and patches it after a successful
// write using the entity the server returned. Failures set LastError to the
// normalized message and are returned to the caller. The loading flag is one
// per store; concurrent fetches are not coordinated and the last to finish
// wins.
package store

import (
	"sync"

	"ndphc-monitor/internal/gateway"
)

type state struct {
	mu        sync.RWMutex
	isLoading bool
	lastError string
}

func (s *state) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// LastError is empty when the last action succeeded.
func (s *state) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *state) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()
}

// fail records err and returns it unchanged.
func (s *state) fail(err error) error {
	s.mu.Lock()
	s.isLoading = false
	s.lastError = gateway.Message(err)
	s.mu.Unlock()
	return err
}

func (s *state) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}
