// Package dateutil provides the calendar arithmetic behind repeat
// scheduling and tick alignment.
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextDaily returns the calendar day after from, at hour:minute in loc.
func NextDaily(from time.Time, hour, minute int, loc *time.Location) time.Time {
	d := from.In(loc).AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

// NextWeekly returns the nearest day 1-7 days after from whose weekday is
// in days, at hour:minute in loc. Reports false when days is empty.
func NextWeekly(from time.Time, hour, minute int, days []time.Weekday, loc *time.Location) (time.Time, bool) {
	if len(days) == 0 {
		return time.Time{}, false
	}
	targets := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		targets[d] = true
	}
	cur := from.In(loc)
	for offset := 1; offset <= 7; offset++ {
		d := cur.AddDate(0, 0, offset)
		if targets[d.Weekday()] {
			return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

// NextMonthly advances from into the following month at hour:minute in
// loc. When dayOfMonth does not exist in that month it clamps to the
// month's last day, so a day-31 repeat lands on Feb 29 or Feb 28.
func NextMonthly(from time.Time, hour, minute, dayOfMonth int, loc *time.Location) time.Time {
	cur := from.In(loc)
	year, month := cur.Year(), int(cur.Month())+1
	if month > 12 {
		month = 1
		year++
	}
	day := dayOfMonth
	if last := DaysIn(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IntervalAligned reports whether a tick at the given minute of the hour
// should fire for an interval of the given length in minutes.
func IntervalAligned(minute, interval int) bool {
	if interval <= 0 {
		return true
	}
	return minute%interval == 0
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps an English weekday name, case-insensitively.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

// ParseTimeOfDay parses an "HH:MM" wall clock.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time of day %q out of range", s)
	}
	return hour, minute, nil
}
