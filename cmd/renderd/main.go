package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"newsreel/internal/adapter/api"
	"newsreel/internal/adapter/client"
	"newsreel/internal/adapter/store"
	"newsreel/internal/config"
	"newsreel/internal/domain/repository"
	"newsreel/internal/logger"
	"newsreel/internal/themes"
	"newsreel/internal/usecase"
	"newsreel/pkg/executor"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	ctx := context.Background()

	cfg, err := config.LoadVideo()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New(cfg.LogLevel)

	cache, err := store.Open(cfg.CacheDir)
	if err != nil {
		log.Fatalf("open artifact cache: %v", err)
	}
	defer cache.Close()

	registry, err := themes.NewRegistry(cfg.TemplatesDir)
	if err != nil {
		log.Fatalf("load themes: %v", err)
	}
	go func() {
		if err := registry.Watch(ctx, logg); err != nil && err != context.Canceled {
			logg.Warn(context.Background(), "Theme watcher stopped: %v", err)
		}
	}()

	exec := executor.New()
	composer := client.NewFFmpegComposer(exec, client.ComposerConfig{
		FFmpegBin:  cfg.FFmpegBin,
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		Encoder:    cfg.Encoder,
		Preset:     cfg.Preset,
		AudioCodec: cfg.AudioCodec,
		FontFile:   cfg.FontFile,
	}, logg)
	audio := client.NewFFmpegAudio(exec, cfg.FFmpegBin, cfg.FFprobeBin)
	downloader := client.NewHTTPDownloader(60 * time.Second)

	var limiter repository.UsageLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = store.NewRedisLimiter(rdb, cfg.CharBudget)
		logg.Info(ctx, "Daily character budget enabled: %d chars via %s", cfg.CharBudget, cfg.RedisAddr)
	}

	svc := usecase.NewVideoService(composer, audio, downloader, cache, registry, limiter, logg, usecase.VideoOptions{
		Width:  cfg.Width,
		Height: cfg.Height,
	})

	if !composer.Available() {
		logg.Warn(ctx, "ffmpeg not found on PATH; render requests will fail")
	}
	svc.SetReady(true)
	logg.Info(ctx, "Video composer ready: %dx%d@%d %s, %d themes", cfg.Width, cfg.Height, cfg.FPS, cfg.Encoder, registry.Count())

	app := fiber.New(fiber.Config{AppName: "newsreel-render"})
	api.SetupVideoRouter(app, api.NewVideoHandler(svc, cache, cfg.CacheDir), cfg.Secret)

	logg.Info(ctx, "Video service listening on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
