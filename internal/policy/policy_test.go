package policy

import (
	"testing"
	"time"

	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
)

func reportWithDeadline(deadline time.Time) *model.DailyReport {
	return &model.DailyReport{SubmissionDeadline: &model.Timestamp{Time: deadline}}
}

func TestIsEditable(t *testing.T) {
	now := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	past := reportWithDeadline(now.Add(-time.Hour))
	future := reportWithDeadline(now.Add(time.Hour))

	tests := []struct {
		name string
		rec  Deadlined
		role model.Role
		want bool
	}{
		{"no record viewer", nil, model.RoleViewer, true},
		{"no record operator", nil, model.RoleOperator, true},
		{"typed nil record", (*model.MorningReading)(nil), model.RoleOperator, true},
		{"past deadline editor", past, model.RoleEditor, true},
		{"past deadline operator", past, model.RoleOperator, false},
		{"past deadline admin", past, model.RoleAdmin, false},
		{"future deadline operator", future, model.RoleOperator, true},
		{"no deadline operator", &model.DailyReport{}, model.RoleOperator, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEditable(tt.rec, tt.role, now))
		})
	}
}

func TestIsPastDeadline(t *testing.T) {
	now := time.Now()
	deadline := now.Add(-time.Minute)
	assert.True(t, IsPastDeadline(&deadline, now))
	assert.False(t, IsPastDeadline(nil, now))
	assert.False(t, IsPastDeadline(&now, now), "the deadline instant itself is still on time")
}

func TestResolve(t *testing.T) {
	now := time.Now()
	past := reportWithDeadline(now.Add(-time.Hour))

	assert.Equal(t, Capabilities{}, Resolve("", nil, now))

	op := Resolve(model.RoleOperator, past, now)
	assert.False(t, op.CanEdit)
	assert.True(t, op.CanCreate)
	assert.False(t, op.CanDelete)

	editor := Resolve(model.RoleEditor, past, now)
	assert.True(t, editor.CanEdit)
	assert.True(t, editor.CanOverrideDeadline)

	admin := Resolve(model.RoleAdmin, nil, now)
	assert.True(t, admin.CanEdit)
	assert.True(t, admin.CanDelete)
}
