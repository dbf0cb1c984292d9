package api

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
	"newsreel/internal/usecase"
)

type VideoHandler struct {
	svc      *usecase.VideoService
	cache    repository.ArtifactStore
	cacheDir string
}

func NewVideoHandler(svc *usecase.VideoService, cache repository.ArtifactStore, cacheDir string) *VideoHandler {
	return &VideoHandler{svc: svc, cache: cache, cacheDir: cacheDir}
}

func (h *VideoHandler) HandleRender(c *fiber.Ctx) error {
	var req entity.RenderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp, err := h.svc.Render(c.Context(), callerFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}

	c.Set("X-Cache-Hit", "false")
	if cached, _ := resp.Metadata["cached"].(bool); cached {
		c.Set("X-Cache-Hit", "true")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *VideoHandler) HandleThumbnail(c *fiber.Ctx) error {
	var req entity.ThumbnailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp, err := h.svc.Thumbnail(c.Context(), callerFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *VideoHandler) HandleVideo(c *fiber.Ctx) error {
	return serveArtifact(c, h.cacheDir)
}

func (h *VideoHandler) HandleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	state := "healthy"
	if !h.svc.Ready() {
		status = fiber.StatusServiceUnavailable
		state = "loading"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":           state,
		"ffmpeg_available": h.svc.ComposerOK(),
		"templates_loaded": h.svc.ThemeCount(),
		"uptime_seconds":   h.svc.Uptime().Seconds(),
	})
}

func (h *VideoHandler) HandleMetrics(c *fiber.Ctx) error {
	stats, err := h.cache.Stats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"requests_processed": h.svc.Processed(),
		"cache_entries":      stats.Entries,
		"cache_hits":         stats.Hits,
		"cache_misses":       stats.Misses,
		"uptime_seconds":     h.svc.Uptime().Seconds(),
	})
}

// SetupVideoRouter wires the video service routes. Rendered artifacts,
// thumbnails and subtitle sidecars are all served from /video.
func SetupVideoRouter(app *fiber.App, handler *VideoHandler, secret string) {
	app.Use(fiberlogger.New())
	app.Use(RequestID())

	app.Get("/health", handler.HandleHealth)
	app.Get("/metrics", handler.HandleMetrics)
	app.Get("/video/:filename", handler.HandleVideo)

	auth := BearerAuth(secret)
	app.Post("/render", auth, handler.HandleRender)
	app.Post("/thumbnail", auth, handler.HandleThumbnail)
}
