package handlers

import (
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/neo-v-dev/postx/internal/models"
	"github.com/neo-v-dev/postx/internal/repository"
	"github.com/neo-v-dev/postx/internal/transfer"
)

// PostHandler serves the post surface of the local JSON API. Mutations
// hold a lock around the load-modify-save cycle; the store is a single
// flat file.
type PostHandler struct {
	repo repository.PostsRepository
	mu   sync.Mutex
}

func NewPostHandler(repo repository.PostsRepository) *PostHandler {
	return &PostHandler{repo: repo}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	data, err := h.repo.Load()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load posts",
		})
	}

	posts := data.Posts
	if status := c.Query("status"); status != "" {
		filtered := make([]*models.Post, 0, len(posts))
		for _, post := range posts {
			if post.Status == models.PostStatus(status) {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	return c.JSON(fiber.Map{"posts": posts})
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	data, err := h.repo.Load()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load posts",
		})
	}

	post := data.FindPost(c.Params("id"))
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	return c.JSON(post)
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := validateCreation(&pc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.repo.Load()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load posts",
		})
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to generate post id",
		})
	}

	now := models.NewTime(time.Now())
	post := &models.Post{
		ID:            id,
		Type:          pc.Type,
		Status:        models.PostStatusPending,
		ScheduledAt:   pc.ScheduledAt,
		CreatedAt:     now,
		UpdatedAt:     now,
		Text:          pc.Text,
		Media:         pc.Media,
		Thread:        pc.Thread,
		TargetTweetID: pc.TargetTweetID,
		Repeat:        pc.Repeat,
	}
	data.Posts = append(data.Posts, post)

	if err := h.repo.Save(data); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save posts",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": post.ID})
}

// CancelPost moves a pending post to the terminal cancelled state and
// records a history entry. Only pending posts can be cancelled.
func (h *PostHandler) CancelPost(c *fiber.Ctx) error {
	var pc transfer.PostCancellation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.repo.Load()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load posts",
		})
	}

	post := data.FindPost(pc.ID)
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	if post.Status != models.PostStatusPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only pending posts can be cancelled",
		})
	}

	now := models.NewTime(time.Now())
	post.Status = models.PostStatusCancelled
	post.UpdatedAt = now

	historyID, err := gonanoid.New()
	if err != nil {
		slog.Error(err.Error())
	}
	data.History = append(data.History, models.HistoryEntry{
		ID:         historyID,
		PostID:     post.ID,
		Action:     models.HistoryActionCancelled,
		ExecutedAt: now,
	})

	if err := h.repo.Save(data); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save posts",
		})
	}

	return c.JSON(fiber.Map{"message": "Post cancelled"})
}

// validateCreation enforces the shape invariants: tweet and repost carry
// text/media, thread carries thread items, every text fits in 280 runes.
func validateCreation(pc *transfer.PostCreation) error {
	if pc.ScheduledAt.IsZero() {
		return errMissing("scheduled_at")
	}

	switch pc.Type {
	case models.PostTypeTweet:
		if pc.Text == "" {
			return errMissing("text")
		}
		if len(pc.Thread) > 0 {
			return errShape("tweet posts cannot carry thread items")
		}
		if utf8.RuneCountInString(pc.Text) > 280 {
			return errShape("text exceeds 280 characters")
		}
	case models.PostTypeThread:
		if len(pc.Thread) == 0 {
			return errMissing("thread")
		}
		for _, item := range pc.Thread {
			if item.Text == "" {
				return errShape("thread items need text")
			}
			if utf8.RuneCountInString(item.Text) > 280 {
				return errShape("thread item text exceeds 280 characters")
			}
		}
	case models.PostTypeRepost:
		if pc.TargetTweetID == "" {
			return errMissing("target_tweet_id")
		}
	default:
		return errShape("unknown post type")
	}

	if r := pc.Repeat; r != nil {
		switch r.Type {
		case models.RepeatTypeWeekly:
			if len(r.Days) == 0 {
				return errMissing("repeat.days")
			}
		case models.RepeatTypeMonthly:
			if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
				return errShape("repeat.day_of_month must be 1-31")
			}
		case models.RepeatTypeDaily:
		default:
			return errShape("unknown repeat type")
		}
		if r.EndDate != "" && r.EndCount > 0 {
			return errShape("repeat may set end_date or end_count, not both")
		}
	}
	return nil
}
