package api

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
	"newsreel/internal/usecase"
)

type SummarizeHandler struct {
	svc          *usecase.SummarizeService
	cache        repository.ArtifactStore
	primaryModel string
}

func NewSummarizeHandler(svc *usecase.SummarizeService, cache repository.ArtifactStore, primaryModel string) *SummarizeHandler {
	return &SummarizeHandler{svc: svc, cache: cache, primaryModel: primaryModel}
}

func (h *SummarizeHandler) HandleSummarize(c *fiber.Ctx) error {
	var req entity.SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp, err := h.svc.Execute(c.Context(), callerFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}

	c.Set("X-Cache-Hit", "false")
	if cached, _ := resp.Metadata["cached"].(bool); cached {
		c.Set("X-Cache-Hit", "true")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *SummarizeHandler) HandleBatch(c *fiber.Ctx) error {
	var req entity.BatchSummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	responses, err := h.svc.ExecuteBatch(c.Context(), callerFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"summaries": responses,
		"count":     len(responses),
	})
}

func (h *SummarizeHandler) HandleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	state := "healthy"
	if !h.svc.Ready() {
		status = fiber.StatusServiceUnavailable
		state = "loading"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":         state,
		"model_loaded":   h.svc.Ready(),
		"model":          h.primaryModel,
		"device":         h.svc.Device(),
		"uptime_seconds": h.svc.Uptime().Seconds(),
	})
}

func (h *SummarizeHandler) HandleMetrics(c *fiber.Ctx) error {
	stats, err := h.cache.Stats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"requests_processed": h.svc.Processed(),
		"cache_entries":      stats.Entries,
		"cache_hits":         stats.Hits,
		"cache_misses":       stats.Misses,
		"model":              h.primaryModel,
		"uptime_seconds":     h.svc.Uptime().Seconds(),
	})
}

// SetupSummarizerRouter wires the summarization service routes. Health and
// metrics stay open; everything that does work sits behind the bearer secret.
func SetupSummarizerRouter(app *fiber.App, handler *SummarizeHandler, secret string) {
	app.Use(fiberlogger.New())
	app.Use(RequestID())

	app.Get("/health", handler.HandleHealth)
	app.Get("/metrics", handler.HandleMetrics)

	auth := BearerAuth(secret)
	app.Post("/summarize", auth, handler.HandleSummarize)
	app.Post("/summarize/batch", auth, handler.HandleBatch)
}
