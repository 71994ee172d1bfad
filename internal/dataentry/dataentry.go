// Package dataentry drives the morning declaration, hourly reading and daily
// report forms: load the plant's turbines and the plant-day record, edit a
// turbine-indexed form, then submit and re-fetch.
package dataentry

import (
	"errors"
	"sync"
)

var (
	// ErrNothingToSubmit matches both empty-submission errors below.
	ErrNothingToSubmit = errors.New("nothing to submit")

	ErrNoReadingsForNewReport error = nothingError("No readings to submit for a new report.")
	ErrNoReadingChanges       error = nothingError("No changes in readings to update.")

	ErrReportUnavailable = errors.New("Failed to create or retrieve daily report ID.")
	ErrNotLoaded         = errors.New("form not loaded")
)

type nothingError string

func (e nothingError) Error() string { return string(e) }

func (e nothingError) Is(target error) bool { return target == ErrNothingToSubmit }

// target is the plant-day a form was loaded for.
type target struct {
	mu      sync.RWMutex
	plantID int
	date    string
	loaded  bool
}

func (t *target) PlantID() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.plantID
}

func (t *target) Date() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.date
}
