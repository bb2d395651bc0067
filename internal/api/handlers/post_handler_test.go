package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/neo-v-dev/postx/internal/models"
	"github.com/neo-v-dev/postx/internal/repository"
)

func testApp(t *testing.T, seed *models.PostsData) (*fiber.App, repository.PostsRepository) {
	t.Helper()

	repo := repository.NewPostsRepository(filepath.Join(t.TempDir(), "posts.json"))
	if err := repo.Save(seed); err != nil {
		t.Fatal(err)
	}

	posts := NewPostHandler(repo)
	history := NewHistoryHandler(repo)

	app := fiber.New()
	app.Get("/api/posts", posts.ListPosts)
	app.Get("/api/posts/:id", posts.GetPost)
	app.Post("/api/posts/create", posts.CreatePost)
	app.Post("/api/posts/cancel", posts.CancelPost)
	app.Get("/api/history", history.ListHistory)
	app.Get("/api/stats", history.GetStats)
	return app, repo
}

func seedData() *models.PostsData {
	return &models.PostsData{
		Config: models.SchedulerConfig{
			Timezone:        "Asia/Tokyo",
			IntervalMinutes: 15,
			DailyLimit:      17,
			MonthlyLimit:    500,
			RetryMax:        3,
		},
		Posts: []*models.Post{
			{
				ID:          "p-pending",
				Type:        models.PostTypeTweet,
				Status:      models.PostStatusPending,
				ScheduledAt: models.NewTime(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
				Text:        "pending tweet",
			},
			{
				ID:            "p-posted",
				Type:          models.PostTypeTweet,
				Status:        models.PostStatusPosted,
				ScheduledAt:   models.NewTime(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
				Text:          "old tweet",
				PostedTweetID: "tweet-9",
			},
		},
		History: []models.HistoryEntry{
			{
				ID:         "h1",
				PostID:     "p-posted",
				Action:     models.HistoryActionPosted,
				ExecutedAt: models.NewTime(time.Date(2024, 5, 1, 9, 0, 5, 0, time.UTC)),
				TweetID:    "tweet-9",
			},
		},
		Stats: models.Stats{DailyCount: 3, MonthlyCount: 40},
	}
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestListPosts(t *testing.T) {
	app, _ := testApp(t, seedData())

	resp, body := doJSON(t, app, http.MethodGet, "/api/posts", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if posts := body["posts"].([]any); len(posts) != 2 {
		t.Errorf("posts = %d, want 2", len(posts))
	}

	resp, body = doJSON(t, app, http.MethodGet, "/api/posts?status=pending", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	posts := body["posts"].([]any)
	if len(posts) != 1 {
		t.Fatalf("filtered posts = %d, want 1", len(posts))
	}
	if id := posts[0].(map[string]any)["id"]; id != "p-pending" {
		t.Errorf("filtered post id = %v", id)
	}
}

func TestGetPost(t *testing.T) {
	app, _ := testApp(t, seedData())

	resp, body := doJSON(t, app, http.MethodGet, "/api/posts/p-posted", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["id"] != "p-posted" || body["posted_tweet_id"] != "tweet-9" {
		t.Errorf("unexpected body: %v", body)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/posts/ghost", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreatePost(t *testing.T) {
	app, repo := testApp(t, seedData())

	resp, body := doJSON(t, app, http.MethodPost, "/api/posts/create", map[string]any{
		"type":         "tweet",
		"scheduled_at": "2030-01-01T09:00:00",
		"text":         "happy new year",
		"repeat":       map[string]any{"type": "daily", "time": "09:00", "end_count": 5},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %v", resp.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatal("response missing id")
	}

	data, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	post := data.FindPost(id)
	if post == nil {
		t.Fatal("created post not persisted")
	}
	if post.Status != models.PostStatusPending || post.Text != "happy new year" {
		t.Errorf("unexpected post: %+v", post)
	}
	if post.Repeat == nil || post.Repeat.EndCount != 5 {
		t.Errorf("repeat not persisted: %+v", post.Repeat)
	}
}

func TestCreatePostValidation(t *testing.T) {
	app, _ := testApp(t, seedData())

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing scheduled_at", map[string]any{"type": "tweet", "text": "hi"}},
		{"tweet without text", map[string]any{"type": "tweet", "scheduled_at": "2030-01-01T09:00:00"}},
		{"tweet with thread items", map[string]any{
			"type": "tweet", "scheduled_at": "2030-01-01T09:00:00", "text": "hi",
			"thread": []map[string]any{{"text": "extra"}},
		}},
		{"thread without items", map[string]any{"type": "thread", "scheduled_at": "2030-01-01T09:00:00"}},
		{"repost without target", map[string]any{"type": "repost", "scheduled_at": "2030-01-01T09:00:00"}},
		{"unknown type", map[string]any{"type": "poll", "scheduled_at": "2030-01-01T09:00:00", "text": "hi"}},
		{"weekly without days", map[string]any{
			"type": "tweet", "scheduled_at": "2030-01-01T09:00:00", "text": "hi",
			"repeat": map[string]any{"type": "weekly", "time": "09:00"},
		}},
		{"monthly day out of range", map[string]any{
			"type": "tweet", "scheduled_at": "2030-01-01T09:00:00", "text": "hi",
			"repeat": map[string]any{"type": "monthly", "time": "09:00", "day_of_month": 32},
		}},
		{"both end conditions", map[string]any{
			"type": "tweet", "scheduled_at": "2030-01-01T09:00:00", "text": "hi",
			"repeat": map[string]any{"type": "daily", "time": "09:00", "end_date": "2030-06-01", "end_count": 3},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, "/api/posts/create", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%v)", resp.StatusCode, body)
			}
		})
	}
}

func TestCancelPost(t *testing.T) {
	app, repo := testApp(t, seedData())

	resp, _ := doJSON(t, app, http.MethodPost, "/api/posts/cancel", map[string]any{"id": "p-pending"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	data, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if data.FindPost("p-pending").Status != models.PostStatusCancelled {
		t.Error("post not cancelled")
	}
	if len(data.History) != 2 {
		t.Fatalf("history entries = %d, want 2", len(data.History))
	}
	last := data.History[1]
	if last.Action != models.HistoryActionCancelled || last.PostID != "p-pending" {
		t.Errorf("unexpected history entry: %+v", last)
	}
}

func TestCancelPostRejections(t *testing.T) {
	app, _ := testApp(t, seedData())

	resp, _ := doJSON(t, app, http.MethodPost, "/api/posts/cancel", map[string]any{"id": "ghost"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/posts/cancel", map[string]any{"id": "p-posted"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("posted post: status = %d, want 409", resp.StatusCode)
	}
}

func TestListHistory(t *testing.T) {
	app, _ := testApp(t, seedData())

	resp, body := doJSON(t, app, http.MethodGet, "/api/history", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	history := body["history"].([]any)
	if len(history) != 1 {
		t.Fatalf("history = %d, want 1", len(history))
	}
	if entry := history[0].(map[string]any); entry["tweet_id"] != "tweet-9" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestGetStats(t *testing.T) {
	app, _ := testApp(t, seedData())

	resp, body := doJSON(t, app, http.MethodGet, "/api/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, ok := body["stats"]; !ok {
		t.Error("response missing stats")
	}
	remaining, ok := body["remaining"].(map[string]any)
	if !ok {
		t.Fatal("response missing remaining")
	}
	// Zero reset markers in the seed make the lazy refresh wipe the
	// counters before remaining is computed.
	if remaining["daily"] != float64(17) || remaining["monthly"] != float64(500) {
		t.Errorf("unexpected remaining: %v", remaining)
	}
}
