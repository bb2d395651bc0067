package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/neo-v-dev/postx/internal/models"
)

// DryRunTweetID is the sentinel tweet id reported for dry-run executions.
const DryRunTweetID = "dry-run"

// PostResult is the outcome of one execution attempt. RollbackErrors
// collects compensation failures from a thread rollback; they never
// escalate past the result.
type PostResult struct {
	PostID         string
	Success        bool
	TweetID        string
	Err            string
	RollbackErrors []string
}

// PostService selects due posts, executes them against the X API and
// applies the resulting status transitions to the store.
type PostService interface {
	GetDuePosts(posts []*models.Post) []*models.Post
	ExecutePost(ctx context.Context, post *models.Post, dryRun bool) PostResult
	UpdatePostStatus(data *models.PostsData, result PostResult, retryMax int)
}

type postService struct {
	x     XService
	media MediaService
	limit LimitService
	loc   *time.Location
	now   func() time.Time
}

func NewPostService(x XService, media MediaService, limit LimitService, loc *time.Location) PostService {
	return &postService{x: x, media: media, limit: limit, loc: loc, now: time.Now}
}

// GetDuePosts returns pending posts whose scheduled time has arrived, in
// store order. Timestamps stored without an offset are read in the
// configured timezone.
func (s *postService) GetDuePosts(posts []*models.Post) []*models.Post {
	now := s.now().In(s.loc)

	var due []*models.Post
	for _, post := range posts {
		if post.Status != models.PostStatusPending {
			continue
		}
		if !post.ScheduledAt.In(s.loc).After(now) {
			due = append(due, post)
		}
	}
	return due
}

// ExecutePost runs a single post. It never returns an error: every
// failure, including validation and quota gating, becomes a failed result.
func (s *postService) ExecutePost(ctx context.Context, post *models.Post, dryRun bool) PostResult {
	result := PostResult{PostID: post.ID}

	if !s.limit.CanPost() {
		result.Err = ErrLimitExceeded.Error()
		return result
	}

	if dryRun {
		slog.Info("dry run, skipping remote calls", "post_id", post.ID)
		result.Success = true
		result.TweetID = DryRunTweetID
		return result
	}

	var (
		tweetID  string
		rollback []string
		err      error
	)
	switch post.Type {
	case models.PostTypeTweet:
		tweetID, err = s.executeTweet(ctx, post)
	case models.PostTypeThread:
		tweetID, rollback, err = s.executeThread(ctx, post)
	case models.PostTypeRepost:
		tweetID, err = s.executeRepost(ctx, post)
	default:
		err = fmt.Errorf("unknown post type %q", post.Type)
	}

	result.RollbackErrors = rollback
	if err != nil {
		slog.Error("post execution failed", "post_id", post.ID, "error", err)
		result.Err = err.Error()
		return result
	}

	// One increment per post, not per thread item.
	s.limit.Increment()
	result.Success = true
	result.TweetID = tweetID
	return result
}

func (s *postService) executeTweet(ctx context.Context, post *models.Post) (string, error) {
	var mediaIDs []string
	if len(post.Media) > 0 {
		ids, err := s.media.UploadAll(ctx, post.Media)
		if err != nil {
			return "", err
		}
		mediaIDs = ids
	}
	return s.x.PostTweet(ctx, post.Text, mediaIDs, "")
}

// executeThread posts items sequentially, each replying to the previous
// tweet. On failure every tweet already posted is rolled back best-effort
// and the original error surfaces. Returns the first tweet's id.
func (s *postService) executeThread(ctx context.Context, post *models.Post) (string, []string, error) {
	if len(post.Thread) == 0 {
		return "", nil, ErrNoThreadItems
	}

	var posted []string
	replyTo := ""
	for i, item := range post.Thread {
		var mediaIDs []string
		if len(item.Media) > 0 {
			ids, err := s.media.UploadAll(ctx, item.Media)
			if err != nil {
				return "", s.rollbackThread(ctx, posted), fmt.Errorf("thread item %d: %w", i+1, err)
			}
			mediaIDs = ids
		}

		tweetID, err := s.x.PostTweet(ctx, item.Text, mediaIDs, replyTo)
		if err != nil {
			return "", s.rollbackThread(ctx, posted), fmt.Errorf("thread item %d: %w", i+1, err)
		}
		posted = append(posted, tweetID)
		replyTo = tweetID
	}

	slog.Info("posted thread", "post_id", post.ID, "tweets", len(posted))
	return posted[0], nil, nil
}

func (s *postService) rollbackThread(ctx context.Context, tweetIDs []string) []string {
	var failures []string
	for _, id := range tweetIDs {
		if err := s.x.DeleteTweet(ctx, id); err != nil {
			slog.Warn("thread rollback delete failed", "tweet_id", id, "error", err)
			failures = append(failures, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		slog.Info("rolled back thread tweet", "tweet_id", id)
	}
	return failures
}

func (s *postService) executeRepost(ctx context.Context, post *models.Post) (string, error) {
	if post.TargetTweetID == "" {
		return "", ErrNoRepostTarget
	}
	if err := s.x.Repost(ctx, post.TargetTweetID); err != nil {
		return "", err
	}
	return post.TargetTweetID, nil
}

// UpdatePostStatus applies a result to the store: posted on success,
// retry bookkeeping on failure with the failed state once retries are
// exhausted, plus one history entry per call. Unknown post ids are a no-op.
func (s *postService) UpdatePostStatus(data *models.PostsData, result PostResult, retryMax int) {
	post := data.FindPost(result.PostID)
	if post == nil {
		return
	}

	post.UpdatedAt = models.NewTime(s.now().In(s.loc))

	action := models.HistoryActionPosted
	if result.Success {
		post.Status = models.PostStatusPosted
		post.PostedTweetID = result.TweetID
	} else {
		action = models.HistoryActionFailed
		post.RetryCount++
		post.ErrorMessage = result.Err
		if post.RetryCount >= retryMax {
			post.Status = models.PostStatusFailed
		}
		// Otherwise the post stays pending and retries on a later tick.
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Error("generate history id", "error", err)
	}
	data.History = append(data.History, models.HistoryEntry{
		ID:         id,
		PostID:     post.ID,
		Action:     action,
		ExecutedAt: post.UpdatedAt,
		TweetID:    result.TweetID,
		Error:      result.Err,
	})
}
