// Package policy decides who may write a plant-day record and when.
//
// Every predicate is pure and evaluated on demand from the loaded record and
// the caller's clock. Nothing is cached and no timer re-evaluates editability
// when a deadline passes; the next read sees the new answer.
package policy

import (
	"time"

	"ndphc-monitor/internal/model"
)

// Deadlined is a record carrying a server-computed submission deadline.
type Deadlined interface {
	Deadline() *time.Time
}

// IsPastDeadline is false when no deadline is set.
func IsPastDeadline(deadline *time.Time, now time.Time) bool {
	if deadline == nil {
		return false
	}
	return now.After(*deadline)
}

// IsEditable reports whether role may write rec at now. A nil record means the
// period has no record yet, so it can be created.
func IsEditable(rec Deadlined, role model.Role, now time.Time) bool {
	if isNil(rec) {
		return true
	}
	if CanOverrideDeadline(role) {
		return true
	}
	return !IsPastDeadline(rec.Deadline(), now)
}

// CanOverrideDeadline is true for editors only.
func CanOverrideDeadline(role model.Role) bool {
	return role == model.RoleEditor
}

type Capabilities struct {
	CanEdit             bool `json:"can_edit"`
	CanCreate           bool `json:"can_create"`
	CanDelete           bool `json:"can_delete"`
	CanOverrideDeadline bool `json:"can_override_deadline"`
}

// Resolve is the single place role checks are made. An empty role is an
// anonymous session and gets nothing.
func Resolve(role model.Role, rec Deadlined, now time.Time) Capabilities {
	if role == "" {
		return Capabilities{}
	}
	return Capabilities{
		CanEdit:             IsEditable(rec, role, now),
		CanCreate:           true,
		CanDelete:           role == model.RoleAdmin,
		CanOverrideDeadline: CanOverrideDeadline(role),
	}
}

// isNil catches typed nil pointers stored in the interface.
func isNil(rec Deadlined) bool {
	switch r := rec.(type) {
	case nil:
		return true
	case *model.DailyReport:
		return r == nil
	case *model.MorningReading:
		return r == nil
	}
	return false
}
