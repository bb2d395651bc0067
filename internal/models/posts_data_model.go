package models

// SchedulerConfig is the runtime configuration section of the store.
type SchedulerConfig struct {
	Timezone        string `json:"timezone"`
	IntervalMinutes int    `json:"interval_minutes"`
	DailyLimit      int    `json:"daily_limit"`
	MonthlyLimit    int    `json:"monthly_limit"`
	RetryMax        int    `json:"retry_max"`
}

// Stats holds the rolling daily/monthly post counters. Resets are lazy,
// applied whenever a reset boundary has passed at query time.
type Stats struct {
	DailyCount     int  `json:"daily_count"`
	DailyResetAt   Time `json:"daily_reset_at"`
	MonthlyCount   int  `json:"monthly_count"`
	MonthlyResetAt Time `json:"monthly_reset_at"`
}

const (
	HistoryActionPosted    = "posted"
	HistoryActionFailed    = "failed"
	HistoryActionCancelled = "cancelled"
)

// HistoryEntry is an append-only audit record. Entries are never mutated
// or deleted.
type HistoryEntry struct {
	ID         string `json:"id"`
	PostID     string `json:"post_id"`
	Action     string `json:"action"`
	ExecutedAt Time   `json:"executed_at"`
	TweetID    string `json:"tweet_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PostsData is the root document of the flat-file store. It is loaded
// once per run, mutated in place and saved once at the end.
type PostsData struct {
	Config  SchedulerConfig `json:"config"`
	Posts   []*Post         `json:"posts"`
	History []HistoryEntry  `json:"history"`
	Stats   Stats           `json:"stats"`
}

// FindPost returns the post with the given id, or nil.
func (d *PostsData) FindPost(id string) *Post {
	for _, post := range d.Posts {
		if post.ID == id {
			return post
		}
	}
	return nil
}
