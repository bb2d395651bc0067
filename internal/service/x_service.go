package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/dghubble/oauth1"

	"github.com/neo-v-dev/postx/internal/transfer"
)

const (
	defaultAPIBase    = "https://api.twitter.com"
	defaultUploadBase = "https://upload.twitter.com"

	maxTweetRunes = 280
	maxTweetMedia = 4
)

type XCredentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// XService is the remote posting surface: v2 tweet create/delete/retweet
// plus v1.1 media upload, all signed with OAuth 1.0a user context.
type XService interface {
	PostTweet(ctx context.Context, text string, mediaIDs []string, replyTo string) (string, error)
	Repost(ctx context.Context, tweetID string) error
	DeleteTweet(ctx context.Context, tweetID string) error
	UploadMedia(ctx context.Context, path string) (string, error)
}

type xService struct {
	client     *http.Client
	apiBase    string
	uploadBase string

	// cached /2/users/me id, needed for the retweet endpoint
	userID string
}

func NewXService(creds XCredentials) XService {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	return &xService{
		client:     config.Client(context.Background(), token),
		apiBase:    defaultAPIBase,
		uploadBase: defaultUploadBase,
	}
}

func (s *xService) PostTweet(ctx context.Context, text string, mediaIDs []string, replyTo string) (string, error) {
	if n := utf8.RuneCountInString(text); n == 0 || n > maxTweetRunes {
		return "", fmt.Errorf("tweet text must be 1-%d characters, got %d", maxTweetRunes, n)
	}
	if len(mediaIDs) > maxTweetMedia {
		return "", fmt.Errorf("maximum %d media items allowed, got %d", maxTweetMedia, len(mediaIDs))
	}

	body := transfer.TweetRequest{Text: text}
	if len(mediaIDs) > 0 {
		body.Media = &transfer.TweetMedia{MediaIDs: mediaIDs}
	}
	if replyTo != "" {
		body.Reply = &transfer.TweetReply{InReplyToTweetID: replyTo}
	}

	var resp transfer.TweetResponse
	if err := s.postJSON(ctx, s.apiBase+"/2/tweets", body, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", errors.New("tweet response missing id")
	}

	slog.Info("posted tweet", "tweet_id", resp.Data.ID)
	return resp.Data.ID, nil
}

func (s *xService) Repost(ctx context.Context, tweetID string) error {
	if tweetID == "" {
		return errors.New("tweet id cannot be empty")
	}

	userID, err := s.me(ctx)
	if err != nil {
		return err
	}

	var resp transfer.RetweetResponse
	url := fmt.Sprintf("%s/2/users/%s/retweets", s.apiBase, userID)
	if err := s.postJSON(ctx, url, transfer.RetweetRequest{TweetID: tweetID}, &resp); err != nil {
		return err
	}

	slog.Info("reposted tweet", "tweet_id", tweetID)
	return nil
}

func (s *xService) DeleteTweet(ctx context.Context, tweetID string) error {
	if tweetID == "" {
		return errors.New("tweet id cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.apiBase+"/2/tweets/"+tweetID, nil)
	if err != nil {
		return err
	}
	var resp transfer.DeleteResponse
	if err := s.do(req, &resp); err != nil {
		return err
	}

	slog.Info("deleted tweet", "tweet_id", tweetID)
	return nil
}

func (s *xService) UploadMedia(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open media file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read media file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadBase+"/1.1/media/upload.json", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp transfer.MediaUploadResponse
	if err := s.do(req, &resp); err != nil {
		return "", err
	}
	mediaID := resp.MediaIDString
	if mediaID == "" && resp.MediaID != 0 {
		mediaID = strconv.FormatInt(resp.MediaID, 10)
	}
	if mediaID == "" {
		return "", errors.New("upload response missing media_id")
	}

	slog.Info("uploaded media", "media_id", mediaID, "file", filepath.Base(path))
	return mediaID, nil
}

func (s *xService) me(ctx context.Context) (string, error) {
	if s.userID != "" {
		return s.userID, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/2/users/me", nil)
	if err != nil {
		return "", err
	}
	var resp transfer.UserResponse
	if err := s.do(req, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", errors.New("users/me response missing id")
	}

	s.userID = resp.Data.ID
	return s.userID, nil
}

func (s *xService) postJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *xService) do(req *http.Request, out any) error {
	op := req.Method + " " + req.URL.Path

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(diagnoseAPIError(resp.StatusCode, raw, op))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

// diagnoseAPIError extracts a readable message from v2 problem bodies and
// v1.1 error arrays, falling back to the raw body.
func diagnoseAPIError(status int, body []byte, op string) string {
	var problem transfer.APIProblem
	if json.Unmarshal(body, &problem) == nil && problem.Title != "" {
		return fmt.Sprintf("%s: %d %s: %s", op, status, problem.Title, problem.Detail)
	}
	var v1 transfer.APIErrors
	if json.Unmarshal(body, &v1) == nil && len(v1.Errors) > 0 {
		e := v1.Errors[0]
		return fmt.Sprintf("%s: %d error %d: %s", op, status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %d: %s", op, status, bytes.TrimSpace(body))
}
