package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	config "github.com/neo-v-dev/postx/configs"
	"github.com/neo-v-dev/postx/internal/jobs"
	"github.com/neo-v-dev/postx/internal/repository"
	"github.com/neo-v-dev/postx/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	slog.Info("starting X scheduler")

	if !cfg.DryRun && !cfg.X.Complete() {
		slog.Error("missing X API credentials",
			"required", "X_API_KEY, X_API_KEY_SECRET, X_ACCESS_TOKEN, X_ACCESS_TOKEN_SECRET")
		return 1
	}

	repo := repository.NewPostsRepository(cfg.DataPath)
	x := service.NewXService(service.XCredentials{
		ConsumerKey:       cfg.X.APIKey,
		ConsumerSecret:    cfg.X.APIKeySecret,
		AccessToken:       cfg.X.AccessToken,
		AccessTokenSecret: cfg.X.AccessTokenSecret,
	})

	job := jobs.NewSchedulerJob(repo, x, cfg.MediaDir, cfg.DryRun)
	if err := job.Run(context.Background()); err != nil {
		slog.Error("scheduler run failed", "error", err)
		return 1
	}
	return 0
}
