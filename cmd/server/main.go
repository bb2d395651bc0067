package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/robfig/cron"

	config "github.com/neo-v-dev/postx/configs"
	"github.com/neo-v-dev/postx/internal/api/handlers"
	"github.com/neo-v-dev/postx/internal/jobs"
	"github.com/neo-v-dev/postx/internal/repository"
	"github.com/neo-v-dev/postx/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	if !cfg.DryRun && !cfg.X.Complete() {
		log.Fatal("missing X API credentials: X_API_KEY, X_API_KEY_SECRET, X_ACCESS_TOKEN, X_ACCESS_TOKEN_SECRET")
	}

	repo := repository.NewPostsRepository(cfg.DataPath)
	x := service.NewXService(service.XCredentials{
		ConsumerKey:       cfg.X.APIKey,
		ConsumerSecret:    cfg.X.APIKeySecret,
		AccessToken:       cfg.X.AccessToken,
		AccessTokenSecret: cfg.X.AccessTokenSecret,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New())

	post := handlers.NewPostHandler(repo)
	history := handlers.NewHistoryHandler(repo)

	api := app.Group("/api")
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/cancel", post.CancelPost)
	api.Get("/history", history.ListHistory)
	api.Get("/stats", history.GetStats)

	// The tick fires every minute; the job itself skips minutes that do
	// not line up with the configured posting interval.
	job := jobs.NewSchedulerJob(repo, x, cfg.MediaDir, cfg.DryRun)
	c := cron.New()
	c.AddFunc("@every 0h1m0s", func() {
		if err := job.Run(context.Background()); err != nil {
			log.Printf("scheduler tick failed: %v", err)
		}
	})
	c.Start()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	gracefulShutdown(app, c)
}

func gracefulShutdown(app *fiber.App, c *cron.Cron) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	c.Stop()
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	log.Println("Server shutdown complete.")
}
