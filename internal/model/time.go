package model

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Hours is the number of hourly slots in a plant-day. Slots are numbered 1..24.
const Hours = 24

const DateLayout = "2006-01-02"

// FormatDate renders the plant-day key used in paths and query strings.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a yyyy-MM-dd plant-day in local time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp accepts both zoned RFC3339 values and the backend's naive
// datetimes. Naive values are read in local time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// Ptr returns nil for a nil or zero timestamp.
func (t *Timestamp) Ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
