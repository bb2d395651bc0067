package dateutil

import (
	"testing"
	"time"
)

var tokyo = mustLocation("Asia/Tokyo")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func TestNextDaily(t *testing.T) {
	from := time.Date(2024, 1, 1, 9, 0, 0, 0, tokyo)
	got := NextDaily(from, 9, 0, tokyo)
	want := time.Date(2024, 1, 2, 9, 0, 0, 0, tokyo)
	if !got.Equal(want) {
		t.Errorf("NextDaily = %v, want %v", got, want)
	}

	// Month boundary.
	from = time.Date(2024, 1, 31, 23, 30, 0, 0, tokyo)
	got = NextDaily(from, 7, 15, tokyo)
	want = time.Date(2024, 2, 1, 7, 15, 0, 0, tokyo)
	if !got.Equal(want) {
		t.Errorf("NextDaily across month = %v, want %v", got, want)
	}
}

func TestNextWeekly(t *testing.T) {
	// 2024-01-01 is a Monday.
	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, tokyo)

	tests := []struct {
		name string
		days []time.Weekday
		want time.Time
		ok   bool
	}{
		{"next wednesday", []time.Weekday{time.Wednesday}, time.Date(2024, 1, 3, 10, 30, 0, 0, tokyo), true},
		{"same weekday lands a week later", []time.Weekday{time.Monday}, time.Date(2024, 1, 8, 10, 30, 0, 0, tokyo), true},
		{"earliest of several", []time.Weekday{time.Friday, time.Tuesday}, time.Date(2024, 1, 2, 10, 30, 0, 0, tokyo), true},
		{"empty days", nil, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextWeekly(monday, 10, 30, tt.days, tokyo)
			if ok != tt.ok {
				t.Fatalf("NextWeekly ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("NextWeekly = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextMonthly(t *testing.T) {
	tests := []struct {
		name       string
		from       time.Time
		dayOfMonth int
		want       time.Time
	}{
		{
			"plain advance",
			time.Date(2024, 1, 15, 9, 0, 0, 0, tokyo), 15,
			time.Date(2024, 2, 15, 9, 0, 0, 0, tokyo),
		},
		{
			"day 31 clamps to leap february",
			time.Date(2024, 1, 31, 9, 0, 0, 0, tokyo), 31,
			time.Date(2024, 2, 29, 9, 0, 0, 0, tokyo),
		},
		{
			"day 31 clamps to non-leap february",
			time.Date(2023, 1, 31, 9, 0, 0, 0, tokyo), 31,
			time.Date(2023, 2, 28, 9, 0, 0, 0, tokyo),
		},
		{
			"year rollover",
			time.Date(2024, 12, 5, 9, 0, 0, 0, tokyo), 5,
			time.Date(2025, 1, 5, 9, 0, 0, 0, tokyo),
		},
		{
			"day 30 clamps in february only",
			time.Date(2024, 3, 30, 9, 0, 0, 0, tokyo), 30,
			time.Date(2024, 4, 30, 9, 0, 0, 0, tokyo),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextMonthly(tt.from, 9, 0, tt.dayOfMonth, tokyo)
			if !got.Equal(tt.want) {
				t.Errorf("NextMonthly = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestIntervalAligned(t *testing.T) {
	tests := []struct {
		minute   int
		interval int
		want     bool
	}{
		{0, 15, true},
		{15, 15, true},
		{30, 15, true},
		{7, 15, false},
		{59, 15, false},
		{10, 5, true},
		{12, 5, false},
		{0, 60, true},
		{1, 60, false},
		{33, 0, true}, // unset interval never blocks
	}
	for _, tt := range tests {
		if got := IntervalAligned(tt.minute, tt.interval); got != tt.want {
			t.Errorf("IntervalAligned(%d, %d) = %v, want %v", tt.minute, tt.interval, got, tt.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		name string
		want time.Weekday
		ok   bool
	}{
		{"monday", time.Monday, true},
		{"FRIDAY", time.Friday, true},
		{" sunday ", time.Sunday, true},
		{"funday", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseWeekday(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		s       string
		hour    int
		minute  int
		wantErr bool
	}{
		{"09:00", 9, 0, false},
		{"23:59", 23, 59, false},
		{"0:5", 0, 5, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"12", 0, 0, true},
		{"ab:cd", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			hour, minute, err := ParseTimeOfDay(tt.s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.s, err, tt.wantErr)
			}
			if err == nil && (hour != tt.hour || minute != tt.minute) {
				t.Errorf("ParseTimeOfDay(%q) = %d:%d, want %d:%d", tt.s, hour, minute, tt.hour, tt.minute)
			}
		})
	}
}
