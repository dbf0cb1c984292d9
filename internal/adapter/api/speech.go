package api

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
	"newsreel/internal/usecase"
)

type SpeechHandler struct {
	svc      *usecase.SpeechService
	cache    repository.ArtifactStore
	cacheDir string
}

func NewSpeechHandler(svc *usecase.SpeechService, cache repository.ArtifactStore, cacheDir string) *SpeechHandler {
	return &SpeechHandler{svc: svc, cache: cache, cacheDir: cacheDir}
}

func (h *SpeechHandler) HandleSynthesize(c *fiber.Ctx) error {
	var req entity.TTSRequest
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

func (h *SpeechHandler) HandleBatch(c *fiber.Ctx) error {
	var req entity.BatchTTSRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	responses, err := h.svc.ExecuteBatch(c.Context(), callerFrom(c), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"audio_files": responses,
		"count":       len(responses),
	})
}

func (h *SpeechHandler) HandleVoices(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"voices": h.svc.Voices()})
}

func (h *SpeechHandler) HandleAudio(c *fiber.Ctx) error {
	return serveArtifact(c, h.cacheDir)
}

func (h *SpeechHandler) HandleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	state := "healthy"
	if !h.svc.Ready() {
		status = fiber.StatusServiceUnavailable
		state = "loading"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":           state,
		"model_loaded":     h.svc.Ready(),
		"engine_available": h.svc.EngineAvailable(),
		"voices":           len(h.svc.Voices()),
		"uptime_seconds":   h.svc.Uptime().Seconds(),
	})
}

func (h *SpeechHandler) HandleMetrics(c *fiber.Ctx) error {
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

// SetupSpeechRouter wires the TTS service routes. Audio files are public so
// the video service can fetch them without credentials.
func SetupSpeechRouter(app *fiber.App, handler *SpeechHandler, secret string) {
	app.Use(fiberlogger.New())
	app.Use(RequestID())

	app.Get("/health", handler.HandleHealth)
	app.Get("/metrics", handler.HandleMetrics)
	app.Get("/voices", handler.HandleVoices)
	app.Get("/audio/:filename", handler.HandleAudio)

	auth := BearerAuth(secret)
	app.Post("/tts", auth, handler.HandleSynthesize)
	app.Post("/tts/batch", auth, handler.HandleBatch)
}
