package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"

	"github.com/neo-v-dev/postx/internal/models"
)

type mediaLimit struct {
	extensions []string
	maxSize    int64
}

var mediaLimits = map[models.MediaType]mediaLimit{
	models.MediaTypeImage: {extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}, maxSize: 5 << 20},
	models.MediaTypeGif:   {extensions: []string{".gif"}, maxSize: 15 << 20},
	models.MediaTypeVideo: {extensions: []string{".mp4", ".mov"}, maxSize: 512 << 20},
}

// MediaService validates media files and uploads them through the X API.
// Paths are resolved relative to the configured media directory.
type MediaService interface {
	Validate(item models.MediaItem) error
	Upload(ctx context.Context, item models.MediaItem) (string, error)
	UploadAll(ctx context.Context, items []models.MediaItem) ([]string, error)
}

type mediaService struct {
	x       XService
	baseDir string
}

func NewMediaService(x XService, baseDir string) MediaService {
	if baseDir == "" {
		baseDir = "."
	}
	return &mediaService{x: x, baseDir: baseDir}
}

// Validate checks existence, extension, size cap and the file's actual
// magic bytes against the declared media type.
func (s *mediaService) Validate(item models.MediaItem) error {
	limit, ok := mediaLimits[item.Type]
	if !ok {
		return fmt.Errorf("unknown media type %q", item.Type)
	}

	path := filepath.Join(s.baseDir, item.Path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("media file not found: %s", item.Path)
	}
	if info.IsDir() {
		return fmt.Errorf("media path is a directory: %s", item.Path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(limit.extensions, ext) {
		return fmt.Errorf("invalid extension %s for media type %s", ext, item.Type)
	}
	if info.Size() > limit.maxSize {
		return fmt.Errorf("media file too large: %d bytes (max %dMB)", info.Size(), limit.maxSize>>20)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open media file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 261)
	n, _ := io.ReadFull(f, head)
	head = head[:n]

	switch item.Type {
	case models.MediaTypeImage:
		if !filetype.IsImage(head) {
			return fmt.Errorf("file %s is not an image", item.Path)
		}
	case models.MediaTypeGif:
		if kind, _ := filetype.Match(head); kind.Extension != "gif" {
			return fmt.Errorf("file %s is not a gif", item.Path)
		}
	case models.MediaTypeVideo:
		if !filetype.IsVideo(head) {
			return fmt.Errorf("file %s is not a video", item.Path)
		}
	}
	return nil
}

func (s *mediaService) Upload(ctx context.Context, item models.MediaItem) (string, error) {
	if err := s.Validate(item); err != nil {
		return "", err
	}
	return s.x.UploadMedia(ctx, filepath.Join(s.baseDir, item.Path))
}

// UploadAll uploads every item in order, failing fast on the first error.
func (s *mediaService) UploadAll(ctx context.Context, items []models.MediaItem) ([]string, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := s.Upload(ctx, item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
