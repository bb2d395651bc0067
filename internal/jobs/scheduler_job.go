package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo-v-dev/postx/internal/models"
	"github.com/neo-v-dev/postx/internal/repository"
	"github.com/neo-v-dev/postx/internal/service"
	"github.com/neo-v-dev/postx/pkg/dateutil"
)

// SchedulerJob drives one scheduler tick: load the store, execute every
// due post, regenerate repeat posts, save the store once at the end.
type SchedulerJob struct {
	repo     repository.PostsRepository
	x        service.XService
	mediaDir string
	dryRun   bool
	now      func() time.Time
}

func NewSchedulerJob(repo repository.PostsRepository, x service.XService, mediaDir string, dryRun bool) *SchedulerJob {
	return &SchedulerJob{
		repo:     repo,
		x:        x,
		mediaDir: mediaDir,
		dryRun:   dryRun,
		now:      time.Now,
	}
}

// ShouldRun reports whether the current minute lines up with the
// configured posting interval.
func (j *SchedulerJob) ShouldRun(cfg models.SchedulerConfig, loc *time.Location) bool {
	minute := j.now().In(loc).Minute()
	if !dateutil.IntervalAligned(minute, cfg.IntervalMinutes) {
		slog.Info("skipping tick, minute not aligned with interval",
			"minute", minute, "interval_minutes", cfg.IntervalMinutes)
		return false
	}
	return true
}

// Run executes a single tick. Everything before the final save mutates
// only in-memory state, so a failure mid-batch leaves the store file as
// it was and due posts run again on a later tick.
func (j *SchedulerJob) Run(ctx context.Context) error {
	data, err := j.repo.Load()
	if err != nil {
		return err
	}
	slog.Info("loaded posts data", "posts", len(data.Posts))

	loc, err := time.LoadLocation(data.Config.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", data.Config.Timezone, err)
	}

	if !j.ShouldRun(data.Config, loc) {
		return nil
	}
	if j.dryRun {
		slog.Info("running in dry run mode")
	}

	limits := service.NewLimitService(&data.Stats, data.Config.DailyLimit, data.Config.MonthlyLimit, loc)
	media := service.NewMediaService(j.x, j.mediaDir)
	posts := service.NewPostService(j.x, media, limits, loc)
	repeats := service.NewRepeatService(loc)

	due := posts.GetDuePosts(data.Posts)
	slog.Info("selected due posts", "count", len(due))
	if len(due) == 0 {
		return nil
	}

	for _, post := range due {
		slog.Info("processing post", "post_id", post.ID, "type", post.Type)

		result := posts.ExecutePost(ctx, post, j.dryRun)
		posts.UpdatePostStatus(data, result, data.Config.RetryMax)

		if result.Success && post.Repeat != nil {
			if next := repeats.GenerateNextPost(post); next != nil {
				data.Posts = append(data.Posts, next)
			}
		}
	}

	return j.repo.Save(data)
}
