package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"newsreel/internal/adapter/api"
	"newsreel/internal/adapter/client"
	"newsreel/internal/adapter/store"
	"newsreel/internal/config"
	"newsreel/internal/domain/repository"
	"newsreel/internal/logger"
	"newsreel/internal/usecase"
	"newsreel/pkg/executor"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	ctx := context.Background()

	cfg, err := config.LoadSpeech()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New(cfg.LogLevel)

	cache, err := store.Open(cfg.CacheDir)
	if err != nil {
		log.Fatalf("open artifact cache: %v", err)
	}
	defer cache.Close()

	exec := executor.New()
	engine := usecase.NewResilientSpeech(
		client.NewPiperEngine(exec, cfg.PiperBin, cfg.VoicesDir, cfg.DefaultVoice),
		client.NewEspeakEngine(exec, cfg.EspeakBin, cfg.EspeakVoice),
		logg,
	)
	audio := client.NewFFmpegAudio(exec, cfg.FFmpegBin, cfg.FFprobeBin)

	var limiter repository.UsageLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = store.NewRedisLimiter(rdb, cfg.CharBudget)
		logg.Info(ctx, "Daily character budget enabled: %d chars via %s", cfg.CharBudget, cfg.RedisAddr)
	}

	svc := usecase.NewSpeechService(engine, audio, cache, limiter, logg, usecase.SpeechOptions{
		SampleRate:    cfg.SampleRate,
		MaxTextLength: cfg.MaxTextLength,
		Postprocess:   cfg.Postprocess,
		DefaultVoice:  cfg.DefaultVoice,
		Device:        cfg.Device,
	})

	if !engine.Available() {
		logg.Warn(ctx, "No speech engine found on PATH; synthesis requests will fail")
	}
	svc.SetReady(true)
	logg.Info(ctx, "Speech engines ready: piper=%s espeak=%s", cfg.PiperBin, cfg.EspeakBin)

	app := fiber.New(fiber.Config{AppName: "newsreel-speech"})
	api.SetupSpeechRouter(app, api.NewSpeechHandler(svc, cache, cfg.CacheDir), cfg.Secret)

	logg.Info(ctx, "TTS service listening on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
