package transfer

import "github.com/neo-v-dev/postx/internal/models"

// PostCreation is the request body for creating a scheduled post.
type PostCreation struct {
	Type          models.PostType      `json:"type"`
	ScheduledAt   models.Time          `json:"scheduled_at"`
	Text          string               `json:"text"`
	Media         []models.MediaItem   `json:"media"`
	Thread        []models.ThreadItem  `json:"thread"`
	TargetTweetID string               `json:"target_tweet_id"`
	Repeat        *models.RepeatConfig `json:"repeat"`
}

// PostCancellation is the request body for cancelling a pending post.
type PostCancellation struct {
	ID string `json:"id"`
}
