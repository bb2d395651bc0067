package models

import (
	"fmt"
	"strings"
	"time"
)

// Time wraps time.Time with JSON handling that accepts ISO-ish timestamps
// with or without a UTC offset. A value parsed without an offset keeps its
// wall clock and is resolved into a concrete zone by In at use sites, so
// "2024-06-01T09:00:00" means 09:00 in whatever timezone the store is
// configured for, not UTC.
type Time struct {
	t     time.Time
	naive bool
}

func NewTime(t time.Time) Time { return Time{t: t} }

// NewNaiveTime builds a zone-less timestamp from a wall clock.
func NewNaiveTime(t time.Time) Time { return Time{t: t, naive: true} }

// Std returns the underlying time.Time. For naive values the location is
// meaningless; prefer In.
func (t Time) Std() time.Time { return t.t }

func (t Time) IsZero() bool { return t.t.IsZero() }

func (t Time) Naive() bool { return t.naive }

// In returns the instant in loc. Naive values are rebuilt so their wall
// clock is read in loc rather than shifted into it.
func (t Time) In(loc *time.Location) time.Time {
	if t.naive {
		return time.Date(t.t.Year(), t.t.Month(), t.t.Day(),
			t.t.Hour(), t.t.Minute(), t.t.Second(), t.t.Nanosecond(), loc)
	}
	return t.t.In(loc)
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*t = Time{t: parsed}
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Time{t: parsed, naive: true}
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON round-trips the serialized form: values carrying an offset
// keep it, naive values stay naive.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	if t.naive {
		return []byte(`"` + t.t.Format("2006-01-02T15:04:05") + `"`), nil
	}
	return []byte(`"` + t.t.Format(time.RFC3339) + `"`), nil
}
