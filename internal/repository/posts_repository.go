package repository

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/neo-v-dev/postx/internal/models"
)

type PostsRepository interface {
	Load() (*models.PostsData, error)
	Save(data *models.PostsData) error
}

type postsRepository struct {
	path string
}

func NewPostsRepository(path string) PostsRepository {
	return &postsRepository{path: path}
}

func (r *postsRepository) Load() (*models.PostsData, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read posts data: %w", err)
	}

	var data models.PostsData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse posts data %s: %w", r.path, err)
	}
	applyDefaults(&data.Config)

	return &data, nil
}

// Save writes the store atomically via a temp file in the same directory.
func (r *postsRepository) Save(data *models.PostsData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts data: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".posts-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write posts data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace posts data: %w", err)
	}

	slog.Info("saved posts data", "path", r.path, "posts", len(data.Posts))
	return nil
}

func applyDefaults(cfg *models.SchedulerConfig) {
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Tokyo"
	}
	if cfg.IntervalMinutes < 5 || cfg.IntervalMinutes > 60 {
		cfg.IntervalMinutes = 15
	}
	if cfg.DailyLimit <= 0 {
		cfg.DailyLimit = 17
	}
	if cfg.MonthlyLimit <= 0 {
		cfg.MonthlyLimit = 500
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 3
	}
}
