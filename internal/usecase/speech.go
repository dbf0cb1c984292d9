package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
	"newsreel/internal/logger"
	"newsreel/internal/textproc"
)

// SpeechOptions carries the tunables the TTS service needs.
type SpeechOptions struct {
	SampleRate    int
	MaxTextLength int
	Postprocess   bool
	DefaultVoice  string
	Device        string
}

// SpeechService turns text into audio artifacts: normalize, hash, serve the
// cached file when present, otherwise synthesize, post-process and index.
type SpeechService struct {
	engine  *ResilientSpeech
	audio   repository.AudioProcessor
	cache   repository.ArtifactStore
	limiter repository.UsageLimiter // nil when disabled
	log     logger.Logger
	opts    SpeechOptions
	voices  []entity.Voice

	ready     atomic.Bool
	startedAt time.Time
	processed atomic.Int64
}

func NewSpeechService(engine *ResilientSpeech, audio repository.AudioProcessor, cache repository.ArtifactStore, limiter repository.UsageLimiter, log logger.Logger, opts SpeechOptions) *SpeechService {
	return &SpeechService{
		engine:  engine,
		audio:   audio,
		cache:   cache,
		limiter: limiter,
		log:     log,
		opts:    opts,
		voices: []entity.Voice{
			{VoiceID: "default", Name: opts.DefaultVoice, Language: "en-US", Gender: "female", Description: "Neural voice, news register", SampleRate: opts.SampleRate},
			{VoiceID: "fallback", Name: "espeak", Language: "en-US", Gender: "neutral", Description: "Formant voice used when the neural engine fails", SampleRate: opts.SampleRate},
		},
		startedAt: time.Now(),
	}
}

func (s *SpeechService) SetReady(ready bool)    { s.ready.Store(ready) }
func (s *SpeechService) Ready() bool            { return s.ready.Load() }
func (s *SpeechService) Uptime() time.Duration  { return time.Since(s.startedAt) }
func (s *SpeechService) Processed() int64       { return s.processed.Load() }
func (s *SpeechService) Voices() []entity.Voice { return s.voices }
func (s *SpeechService) EngineAvailable() bool  { return s.engine.Available() }

// Execute produces one audio artifact. The cache key covers exactly the
// fields that change the waveform: normalized text, voice and speed.
func (s *SpeechService) Execute(ctx context.Context, caller string, req *entity.TTSRequest) (*entity.TTSResponse, error) {
	start := time.Now()

	if !s.ready.Load() {
		return nil, entity.ErrNotReady
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if n := len([]rune(req.Text)); n > s.opts.MaxTextLength {
		return nil, &entity.ValidationError{Field: "text", Reason: fmt.Sprintf("must be at most %d characters, got %d", s.opts.MaxTextLength, n)}
	}
	if err := s.checkBudget(ctx, caller, len(req.Text)); err != nil {
		return nil, err
	}

	speechText := textproc.NormalizeSpeech(req.Text)
	key := entity.CacheKey(speechText, req.VoiceID, strconv.FormatFloat(req.Speed, 'f', -1, 64))

	if info, ok, err := s.cache.Lookup(ctx, key, req.Format); err != nil {
		return nil, err
	} else if ok {
		s.processed.Add(1)
		return s.buildResponse(req, info, start, true), nil
	}

	raw, err := os.CreateTemp("", "tts-raw-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	raw.Close()
	defer os.Remove(raw.Name())

	engineName, err := s.engine.Synthesize(ctx, speechText, req.VoiceID, raw.Name())
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	outPath := s.cache.Path(key, req.Format)
	if s.opts.Postprocess || req.Format != "wav" {
		err = s.audio.Process(ctx, raw.Name(), outPath, entity.AudioOptions{
			Speed:      req.Speed,
			Volume:     req.Volume,
			SampleRate: req.SampleRate,
			Format:     req.Format,
			Normalize:  true,
		})
	} else {
		err = copyFile(raw.Name(), outPath)
	}
	if err != nil {
		return nil, fmt.Errorf("audio post-processing failed: %w", err)
	}

	duration, err := s.audio.Duration(ctx, outPath)
	if err != nil {
		return nil, fmt.Errorf("probe audio duration: %w", err)
	}

	info, err := s.cache.Record(ctx, key, req.Format, entity.ArtifactMeta{Duration: duration, Engine: engineName})
	if err != nil {
		return nil, err
	}

	s.recordUsage(caller, len(req.Text))
	s.processed.Add(1)
	return s.buildResponse(req, info, start, false), nil
}

func (s *SpeechService) buildResponse(req *entity.TTSRequest, info *entity.ArtifactInfo, start time.Time, cached bool) *entity.TTSResponse {
	return &entity.TTSResponse{
		AudioURL:       "/audio/" + info.Key + "." + info.Ext,
		Duration:       info.Duration,
		SampleRate:     req.SampleRate,
		Format:         req.Format,
		FileSize:       info.Size,
		ProcessingTime: time.Since(start).Seconds(),
		VoiceUsed:      req.VoiceID,
		Metadata: map[string]interface{}{
			"cached":         cached,
			"engine_used":    info.Engine,
			"text_length":    len([]rune(req.Text)),
			"post_processed": s.opts.Postprocess && !cached,
		},
	}
}

// ExecuteBatch converts up to 5 texts with shared voice settings. Items run
// concurrently but the batch is all-or-nothing: the first failure aborts the
// whole request, no partial placeholders.
func (s *SpeechService) ExecuteBatch(ctx context.Context, caller string, batch *entity.BatchTTSRequest) ([]entity.TTSResponse, error) {
	if !s.ready.Load() {
		return nil, entity.ErrNotReady
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	responses := make([]entity.TTSResponse, len(batch.Texts))
	errs := make([]error, len(batch.Texts))
	sem := make(chan struct{}, batchWorkers)
	var wg sync.WaitGroup

	for i, text := range batch.Texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			req := entity.TTSRequest{Text: text, VoiceID: batch.VoiceID, Speed: batch.Speed}
			resp, err := s.Execute(ctx, caller, &req)
			if err != nil {
				errs[i] = err
				return
			}
			responses[i] = *resp
		}(i, text)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
	}
	return responses, nil
}

func (s *SpeechService) checkBudget(ctx context.Context, caller string, chars int) error {
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

func (s *SpeechService) recordUsage(caller string, chars int) {
	if s.limiter == nil {
		return
	}
	go func() {
		if err := s.limiter.Record(context.Background(), caller, chars); err != nil {
			s.log.Warn(context.Background(), "Usage record failed: %v", err)
		}
	}()
}

// copyFile is used instead of rename because the temp dir and the cache dir
// may sit on different filesystems.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
