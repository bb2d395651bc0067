package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/neo-v-dev/postx/internal/repository"
	"github.com/neo-v-dev/postx/internal/service"
)

type HistoryHandler struct {
	repo repository.PostsRepository
}

func NewHistoryHandler(repo repository.PostsRepository) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

func (h *HistoryHandler) ListHistory(c *fiber.Ctx) error {
	data, err := h.repo.Load()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load history",
		})
	}
	return c.JSON(fiber.Map{"history": data.History})
}

// GetStats reports the current counters plus remaining quota after a lazy
// reset check. The refreshed state is not written back; the next scheduler
// run persists it.
func (h *HistoryHandler) GetStats(c *fiber.Ctx) error {
	data, err := h.repo.Load()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load stats",
		})
	}

	loc, err := time.LoadLocation(data.Config.Timezone)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Invalid timezone configuration",
		})
	}

	limits := service.NewLimitService(&data.Stats, data.Config.DailyLimit, data.Config.MonthlyLimit, loc)
	remaining := limits.Remaining()

	return c.JSON(fiber.Map{
		"stats":     data.Stats,
		"remaining": remaining,
	})
}
