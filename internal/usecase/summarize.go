package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
	"newsreel/internal/logger"
	"newsreel/internal/textproc"
)

// How many batch items run concurrently.
const batchWorkers = 4

// SummarizeOptions carries the tunables the service needs beyond its
// collaborators.
type SummarizeOptions struct {
	MaxWords int
	MinWords int
	Device   string
}

// SummarizeService turns articles into summaries: exact cache first, then the
// optional semantic cache, then the resilient provider chain.
type SummarizeService struct {
	provider *ResilientSummarizer
	cache    repository.ArtifactStore
	semantic repository.SemanticCache // nil when disabled
	limiter  repository.UsageLimiter  // nil when disabled
	log      logger.Logger
	opts     SummarizeOptions

	ready     atomic.Bool
	startedAt time.Time
	processed atomic.Int64
}

func NewSummarizeService(provider *ResilientSummarizer, cache repository.ArtifactStore, semantic repository.SemanticCache, limiter repository.UsageLimiter, log logger.Logger, opts SummarizeOptions) *SummarizeService {
	return &SummarizeService{
		provider:  provider,
		cache:     cache,
		semantic:  semantic,
		limiter:   limiter,
		log:       log,
		opts:      opts,
		startedAt: time.Now(),
	}
}

// SetReady flips the health gate once warm-up finished.
func (s *SummarizeService) SetReady(ready bool) { s.ready.Store(ready) }

// Ready reports whether the service accepts work.
func (s *SummarizeService) Ready() bool { return s.ready.Load() }

// Uptime is reported by the health endpoint.
func (s *SummarizeService) Uptime() time.Duration { return time.Since(s.startedAt) }

// Processed is the number of summaries produced since start, cached or not.
func (s *SummarizeService) Processed() int64 { return s.processed.Load() }

// Device is reported by health and response metadata.
func (s *SummarizeService) Device() string { return s.opts.Device }

// cachedSummary is the JSON shape persisted per cache key.
type cachedSummary struct {
	Summary   string `json:"summary"`
	ModelUsed string `json:"model_used"`
}

// Execute produces one summary. Identical semantic inputs always resolve to
// the same cache key, so repeat calls return the stored artifact without
// touching a provider.
func (s *SummarizeService) Execute(ctx context.Context, caller string, req *entity.SummarizeRequest) (*entity.SummarizeResponse, error) {
	start := time.Now()

	if !s.ready.Load() {
		return nil, entity.ErrNotReady
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkBudget(ctx, caller, len(req.Content)); err != nil {
		return nil, err
	}

	// Both text fields are normalized before hashing: requests differing only
	// in incidental whitespace share one cache entry.
	title := textproc.Normalize(req.Title)
	normalized := textproc.Normalize(req.Content)
	key := entity.CacheKey(title, normalized, strconv.Itoa(req.LengthHint), req.Style)

	if info, ok, err := s.cache.Lookup(ctx, key, "json"); err != nil {
		return nil, err
	} else if ok {
		if resp, err := s.fromCache(title, normalized, info, start); err == nil {
			return resp, nil
		}
		// Unreadable artifact degrades to a miss.
		s.log.Warn(ctx, "Cached summary %s unreadable, regenerating", key)
	}

	summary, model, fellBack, err := s.generate(ctx, req, title, normalized)
	if err != nil {
		return nil, err
	}

	record, err := json.Marshal(cachedSummary{Summary: summary, ModelUsed: model})
	if err != nil {
		return nil, err
	}
	// A summary that cannot be persisted must not be returned: the caller
	// would observe a key that later misses.
	if _, err := s.cache.StoreBytes(ctx, key, "json", record, entity.ArtifactMeta{Engine: model}); err != nil {
		return nil, err
	}

	s.recordUsage(caller, len(req.Content))
	if s.semantic != nil && model != semanticModel {
		go func() {
			if err := s.semantic.Save(context.Background(), normalized, summary); err != nil {
				s.log.Warn(context.Background(), "Semantic cache save failed: %v", err)
			}
		}()
	}

	s.processed.Add(1)
	return s.buildResponse(title, normalized, summary, model, start, responseFlags{fellBack: fellBack}), nil
}

// ModelUsed value for semantic-cache hits.
const semanticModel = "semantic-cache"

func (s *SummarizeService) generate(ctx context.Context, req *entity.SummarizeRequest, title, normalized string) (summary, model string, fellBack bool, err error) {
	if s.semantic != nil {
		if hit, ok, serr := s.semantic.Search(ctx, normalized); serr != nil {
			s.log.Warn(ctx, "Semantic cache search failed: %v", serr)
		} else if ok {
			return hit, semanticModel, false, nil
		}
	}

	contentWords := len(strings.Fields(normalized))
	target := min(req.LengthHint, max(30, contentWords/10))
	prompt := entity.SummaryPrompt{
		Title:       title,
		Content:     normalized,
		TargetWords: target,
		MaxWords:    min(target+50, s.opts.MaxWords),
		MinWords:    max(target-20, s.opts.MinWords),
		Style:       req.Style,
		Language:    req.Language,
	}

	result, err := s.provider.Summarize(ctx, prompt)
	if err != nil {
		return "", "", false, fmt.Errorf("summarization failed: %w", err)
	}

	summary = strings.TrimSpace(result.Text)
	if !strings.HasSuffix(summary, ".") && !strings.HasSuffix(summary, "!") && !strings.HasSuffix(summary, "?") {
		summary += "."
	}
	return summary, result.Model, result.FellBack, nil
}

func (s *SummarizeService) fromCache(title, normalized string, info *entity.ArtifactInfo, start time.Time) (*entity.SummarizeResponse, error) {
	data, err := os.ReadFile(info.Path)
	if err != nil {
		return nil, err
	}
	var rec cachedSummary
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	s.processed.Add(1)
	return s.buildResponse(title, normalized, rec.Summary, rec.ModelUsed, start, responseFlags{cached: true}), nil
}

type responseFlags struct {
	cached   bool
	fellBack bool
}

func (s *SummarizeService) buildResponse(title, normalized, summary, model string, start time.Time, flags responseFlags) *entity.SummarizeResponse {
	summaryWords := len(strings.Fields(summary))
	originalWords := len(strings.Fields(normalized))

	compression := 0.0
	if originalWords > 0 {
		compression = float64(summaryWords) / float64(originalWords)
	}

	metadata := map[string]interface{}{
		"original_length":   originalWords,
		"compression_ratio": compression,
		"title_length":      len(strings.Fields(title)),
		"processing_device": s.opts.Device,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"cached":            flags.cached,
	}
	if flags.fellBack {
		metadata["fallback_used"] = true
	}

	return &entity.SummarizeResponse{
		Summary: summary,
		Length:  summaryWords,
		ReadingLevel: entity.ReadingLevel{
			FleschEase:    textproc.FleschReadingEase(summary),
			FleschKincaid: textproc.FleschKincaidGrade(summary),
		},
		QualityScore:     textproc.QualityScore(normalized, summary),
		ProcessingTime:   time.Since(start).Seconds(),
		ModelUsed:        model,
		LanguageDetected: textproc.DetectLanguage(title + ". " + normalized),
		KeyPoints:        textproc.KeyPoints(normalized, 3),
		Metadata:         metadata,
	}
}

// ExecuteBatch processes up to 10 articles concurrently. A failing item never
// sinks its siblings: it yields a placeholder entry at its index and the rest
// complete normally.
func (s *SummarizeService) ExecuteBatch(ctx context.Context, caller string, batch *entity.BatchSummarizeRequest) ([]entity.SummarizeResponse, error) {
	if !s.ready.Load() {
		return nil, entity.ErrNotReady
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	responses := make([]entity.SummarizeResponse, len(batch.Articles))
	sem := make(chan struct{}, batchWorkers)
	var wg sync.WaitGroup

	for i := range batch.Articles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resp, err := s.Execute(ctx, caller, &batch.Articles[i])
			if err != nil {
				s.log.Warn(ctx, "Batch article %d failed: %v", i, err)
				responses[i] = errorPlaceholder(err)
				return
			}
			responses[i] = *resp
		}(i)
	}
	wg.Wait()

	return responses, nil
}

// errorPlaceholder keeps batch positions aligned when one article fails.
func errorPlaceholder(err error) entity.SummarizeResponse {
	return entity.SummarizeResponse{
		Summary:          fmt.Sprintf("Error processing article: %v", err),
		ModelUsed:        "error",
		LanguageDetected: "unknown",
		KeyPoints:        []string{},
		Metadata:         map[string]interface{}{"error": err.Error()},
	}
}

func (s *SummarizeService) checkBudget(ctx context.Context, caller string, chars int) error {
	if s.limiter == nil {
		return nil
	}
	allowed, err := s.limiter.Allow(ctx, caller, chars)
	if err != nil {
		return fmt.Errorf("usage limiter check failed: %w", err)
	}
	if !allowed {
		return entity.ErrBudgetExceeded
	}
	return nil
}

func (s *SummarizeService) recordUsage(caller string, chars int) {
	if s.limiter == nil {
		return
	}
	go func() {
		if err := s.limiter.Record(context.Background(), caller, chars); err != nil {
			s.log.Warn(context.Background(), "Usage record failed: %v", err)
		}
	}()
}
