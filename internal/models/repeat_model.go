package models

type RepeatType string

const (
	RepeatTypeDaily   RepeatType = "daily"
	RepeatTypeWeekly  RepeatType = "weekly"
	RepeatTypeMonthly RepeatType = "monthly"
)

type RepeatConfig struct {
	Type RepeatType `json:"type"`
	// Days holds weekday names for weekly repeats, e.g. ["monday", "friday"].
	Days []string `json:"days,omitempty"`
	// DayOfMonth is 1-31 for monthly repeats.
	DayOfMonth int `json:"day_of_month,omitempty"`
	// Time is "HH:MM" in the configured timezone.
	Time          string `json:"time"`
	EndDate       string `json:"end_date,omitempty"`
	EndCount      int    `json:"end_count,omitempty"`
	ExecutedCount int    `json:"executed_count"`
}

func (rc *RepeatConfig) Clone() *RepeatConfig {
	if rc == nil {
		return nil
	}
	out := *rc
	if rc.Days != nil {
		out.Days = append([]string(nil), rc.Days...)
	}
	return &out
}
