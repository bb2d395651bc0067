package models

type PostType string

const (
	PostTypeTweet  PostType = "tweet"
	PostTypeThread PostType = "thread"
	PostTypeRepost PostType = "repost"
)

type PostStatus string

const (
	PostStatusPending   PostStatus = "pending"
	PostStatusPosting   PostStatus = "posting"
	PostStatusPosted    PostStatus = "posted"
	PostStatusFailed    PostStatus = "failed"
	PostStatusCancelled PostStatus = "cancelled"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeGif   MediaType = "gif"
)

type MediaItem struct {
	Type MediaType `json:"type"`
	Path string    `json:"path"`
	// MediaID is filled transiently during an upload; regenerated repeat
	// posts start with it cleared.
	MediaID string `json:"media_id,omitempty"`
}

type ThreadItem struct {
	Text          string      `json:"text"`
	Media         []MediaItem `json:"media,omitempty"`
	PostedTweetID string      `json:"posted_tweet_id,omitempty"`
}

type Post struct {
	ID          string     `json:"id"`
	Type        PostType   `json:"type"`
	Status      PostStatus `json:"status"`
	ScheduledAt Time       `json:"scheduled_at"`
	CreatedAt   Time       `json:"created_at"`
	UpdatedAt   Time       `json:"updated_at"`

	// For tweet/thread
	Text  string      `json:"text,omitempty"`
	Media []MediaItem `json:"media,omitempty"`

	// For thread
	Thread []ThreadItem `json:"thread,omitempty"`

	// For repost
	TargetTweetID string `json:"target_tweet_id,omitempty"`

	Repeat *RepeatConfig `json:"repeat,omitempty"`

	// Execution info
	RetryCount    int    `json:"retry_count"`
	ErrorMessage  string `json:"error_message,omitempty"`
	PostedTweetID string `json:"posted_tweet_id,omitempty"`
}

// CloneMedia copies a media list with transient upload ids cleared so a
// regenerated repeat post uploads fresh.
func CloneMedia(items []MediaItem) []MediaItem {
	if items == nil {
		return nil
	}
	out := make([]MediaItem, len(items))
	for i, item := range items {
		out[i] = MediaItem{Type: item.Type, Path: item.Path}
	}
	return out
}

// CloneThread copies thread items with per-item posting state cleared.
func CloneThread(items []ThreadItem) []ThreadItem {
	if items == nil {
		return nil
	}
	out := make([]ThreadItem, len(items))
	for i, item := range items {
		out[i] = ThreadItem{Text: item.Text, Media: CloneMedia(item.Media)}
	}
	return out
}
