package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	"newsreel/internal/adapter/api"
	"newsreel/internal/adapter/client"
	"newsreel/internal/adapter/store"
	"newsreel/internal/config"
	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
	"newsreel/internal/logger"
	"newsreel/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	ctx := context.Background()

	cfg, err := config.LoadSummarizer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New(cfg.LogLevel)

	cache, err := store.Open(cfg.CacheDir)
	if err != nil {
		log.Fatalf("open artifact cache: %v", err)
	}
	defer cache.Close()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("init genai client: %v", err)
	}

	provider := usecase.NewResilientSummarizer(
		client.NewGeminiSummarizer(genaiClient, cfg.PrimaryModel),
		client.NewGeminiSummarizer(genaiClient, cfg.FallbackModel),
		logg,
	)

	// Redis and Qdrant are optional tiers; the service runs without them.
	var limiter repository.UsageLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = store.NewRedisLimiter(rdb, cfg.CharBudget)
		logg.Info(ctx, "Daily character budget enabled: %d chars via %s", cfg.CharBudget, cfg.RedisAddr)
	}

	var semantic repository.SemanticCache
	if cfg.QdrantHost != "" {
		qClient, err := qdrant.NewClient(&qdrant.Config{Host: cfg.QdrantHost, Port: cfg.QdrantPort})
		if err != nil {
			log.Fatalf("connect to qdrant: %v", err)
		}
		embedder := client.NewEmbedder(genaiClient, cfg.EmbeddingModel)
		sc := store.NewSemanticCache(qClient, embedder, cfg.QdrantCollection, float32(cfg.SemanticThreshold), logg)
		if err := sc.InitCollection(ctx, 768); err != nil {
			log.Fatalf("init qdrant collection: %v", err)
		}
		semantic = sc
		logg.Info(ctx, "Semantic cache enabled: %s/%s", cfg.QdrantHost, cfg.QdrantCollection)
	}

	svc := usecase.NewSummarizeService(provider, cache, semantic, limiter, logg, usecase.SummarizeOptions{
		MaxWords: cfg.MaxSummaryLength,
		MinWords: cfg.MinSummaryLength,
		Device:   cfg.Device,
	})

	// Warm the model so the first real request does not pay the cold start.
	// Health reports loading until this finishes.
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := provider.Summarize(warmCtx, entity.SummaryPrompt{
			Title: "warmup", Content: "warmup", TargetWords: 5, MaxWords: 10, MinWords: 1,
			Style: "news", Language: "en",
		})
		if err != nil {
			logg.Warn(warmCtx, "Model warm-up failed: %v", err)
		}
		svc.SetReady(true)
		logg.Info(context.Background(), "Summarizer ready: primary=%s fallback=%s", cfg.PrimaryModel, cfg.FallbackModel)
	}()

	app := fiber.New(fiber.Config{AppName: "newsreel-summarizer"})
	api.SetupSummarizerRouter(app, api.NewSummarizeHandler(svc, cache, cfg.PrimaryModel), cfg.Secret)

	logg.Info(ctx, "Summarization service listening on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
