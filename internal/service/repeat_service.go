package service

import (
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/neo-v-dev/postx/internal/models"
	"github.com/neo-v-dev/postx/pkg/dateutil"
)

// RepeatService turns a completed repeat post into its successor.
type RepeatService interface {
	CalculateNext(repeat *models.RepeatConfig, from time.Time) (time.Time, bool)
	GenerateNextPost(original *models.Post) *models.Post
}

type repeatService struct {
	loc *time.Location
	now func() time.Time
}

func NewRepeatService(loc *time.Location) RepeatService {
	return &repeatService{loc: loc, now: time.Now}
}

// CalculateNext returns the next occurrence after from, or false when the
// repeat is exhausted. A malformed config (bad time, weekly without days,
// monthly without a day of month) is treated as terminal, not as an error.
func (s *repeatService) CalculateNext(repeat *models.RepeatConfig, from time.Time) (time.Time, bool) {
	if repeat.EndDate != "" {
		end, err := parseEndDate(repeat.EndDate, s.loc)
		if err != nil {
			slog.Warn("invalid repeat end_date", "end_date", repeat.EndDate, "error", err)
			return time.Time{}, false
		}
		if !from.Before(end) {
			return time.Time{}, false
		}
	}
	if repeat.EndCount > 0 && repeat.ExecutedCount >= repeat.EndCount {
		return time.Time{}, false
	}

	hour, minute, err := dateutil.ParseTimeOfDay(repeat.Time)
	if err != nil {
		slog.Warn("invalid repeat time", "time", repeat.Time, "error", err)
		return time.Time{}, false
	}

	switch repeat.Type {
	case models.RepeatTypeDaily:
		return dateutil.NextDaily(from, hour, minute, s.loc), true
	case models.RepeatTypeWeekly:
		var days []time.Weekday
		for _, name := range repeat.Days {
			if wd, ok := dateutil.ParseWeekday(name); ok {
				days = append(days, wd)
			}
		}
		return dateutil.NextWeekly(from, hour, minute, days, s.loc)
	case models.RepeatTypeMonthly:
		if repeat.DayOfMonth < 1 || repeat.DayOfMonth > 31 {
			return time.Time{}, false
		}
		return dateutil.NextMonthly(from, hour, minute, repeat.DayOfMonth, s.loc), true
	}
	return time.Time{}, false
}

// GenerateNextPost builds the successor of a repeat post: fresh id, same
// content, pending status, and a cloned repeat config whose executed_count
// advances by one. The original post is left untouched; the series is
// tracked forward only through the clones.
func (s *repeatService) GenerateNextPost(original *models.Post) *models.Post {
	if original.Repeat == nil {
		return nil
	}

	next, ok := s.CalculateNext(original.Repeat, original.ScheduledAt.In(s.loc))
	if !ok {
		return nil
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Error("generate post id", "error", err)
		return nil
	}

	repeat := original.Repeat.Clone()
	repeat.ExecutedCount++

	now := models.NewTime(s.now().In(s.loc))
	post := &models.Post{
		ID:            id,
		Type:          original.Type,
		Status:        models.PostStatusPending,
		ScheduledAt:   models.NewTime(next),
		CreatedAt:     now,
		UpdatedAt:     now,
		Text:          original.Text,
		Media:         models.CloneMedia(original.Media),
		Thread:        models.CloneThread(original.Thread),
		TargetTweetID: original.TargetTweetID,
		Repeat:        repeat,
	}

	slog.Info("generated next repeat post", "post_id", post.ID, "scheduled_at", next)
	return post
}

func parseEndDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized end_date %q", s)
}
