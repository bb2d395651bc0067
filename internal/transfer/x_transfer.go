package transfer

// X API v2 request/response shapes.

type TweetRequest struct {
	Text  string      `json:"text"`
	Media *TweetMedia `json:"media,omitempty"`
	Reply *TweetReply `json:"reply,omitempty"`
}

type TweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type TweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type TweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type RetweetRequest struct {
	TweetID string `json:"tweet_id"`
}

type RetweetResponse struct {
	Data struct {
		Retweeted bool `json:"retweeted"`
	} `json:"data"`
}

type DeleteResponse struct {
	Data struct {
		Deleted bool `json:"deleted"`
	} `json:"data"`
}

type UserResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

// v1.1 media/upload response.
type MediaUploadResponse struct {
	MediaID       int64  `json:"media_id"`
	MediaIDString string `json:"media_id_string"`
}

// v2 problem-style error body.
type APIProblem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// v1.1 error array body.
type APIErrors struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}
