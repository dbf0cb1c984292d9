package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
	"newsreel/internal/logger"
	"newsreel/internal/textproc"
	"newsreel/internal/themes"
)

const (
	thumbWidth  = 1280
	thumbHeight = 720
)

// VideoOptions carries the tunables the video service needs.
type VideoOptions struct {
	Width  int
	Height int
}

// VideoService assembles news videos from a summary, a remote audio track and
// optional images, and renders standalone thumbnails. Outputs land in the
// artifact cache keyed by the request's semantic fields.
type VideoService struct {
	composer   repository.VideoComposer
	audio      repository.AudioProcessor
	downloader repository.Downloader
	cache      repository.ArtifactStore
	themes     *themes.Registry
	limiter    repository.UsageLimiter // nil when disabled
	log        logger.Logger
	opts       VideoOptions

	ready     atomic.Bool
	startedAt time.Time
	processed atomic.Int64
}

func NewVideoService(composer repository.VideoComposer, audio repository.AudioProcessor, downloader repository.Downloader, cache repository.ArtifactStore, registry *themes.Registry, limiter repository.UsageLimiter, log logger.Logger, opts VideoOptions) *VideoService {
	return &VideoService{
		composer:   composer,
		audio:      audio,
		downloader: downloader,
		cache:      cache,
		themes:     registry,
		limiter:    limiter,
		log:        log,
		opts:       opts,
		startedAt:  time.Now(),
	}
}

func (s *VideoService) SetReady(ready bool)   { s.ready.Store(ready) }
func (s *VideoService) Ready() bool           { return s.ready.Load() }
func (s *VideoService) Uptime() time.Duration { return time.Since(s.startedAt) }
func (s *VideoService) Processed() int64      { return s.processed.Load() }
func (s *VideoService) ThemeCount() int       { return s.themes.Count() }
func (s *VideoService) ComposerOK() bool      { return s.composer.Available() }

// Render assembles one video. The cache key covers the normalized summary,
// the audio URL and the theme; everything else is presentation detail that
// does not warrant a separate artifact.
func (s *VideoService) Render(ctx context.Context, caller string, req *entity.RenderRequest) (*entity.RenderResponse, error) {
	start := time.Now()

	if !s.ready.Load() {
		return nil, entity.ErrNotReady
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkBudget(ctx, caller, len(req.SummaryText)); err != nil {
		return nil, err
	}

	normalized := textproc.Normalize(req.SummaryText)
	key := entity.CacheKey(normalized, req.AudioURL, req.Theme)

	if info, ok, err := s.cache.Lookup(ctx, key, "mp4"); err != nil {
		return nil, err
	} else if ok {
		s.processed.Add(1)
		return s.buildResponse(req, key, info, start, true, 0, 0), nil
	}

	workdir, err := os.MkdirTemp("", "render-*")
	if err != nil {
		return nil, fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workdir)

	audioPath := filepath.Join(workdir, "audio")
	if err := s.downloader.Fetch(ctx, req.AudioURL, audioPath); err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}

	duration := req.Duration
	if duration == 0 {
		duration, err = s.audio.Duration(ctx, audioPath)
		if err != nil {
			return nil, fmt.Errorf("probe audio duration: %w", err)
		}
	}

	// Image failures are not fatal; the video renders with fewer visuals.
	var imagePaths []string
	for i, url := range req.Images {
		dest := filepath.Join(workdir, fmt.Sprintf("image-%d", i))
		if err := s.downloader.Fetch(ctx, url, dest); err != nil {
			s.log.Warn(ctx, "Skipping image %s: %v", url, err)
			continue
		}
		imagePaths = append(imagePaths, dest)
	}

	segments := textproc.SliceSubtitles(normalized, duration)

	plan := entity.RenderPlan{
		Title:         req.Title,
		Theme:         s.themes.Get(req.Theme),
		AudioPath:     audioPath,
		ImagePaths:    imagePaths,
		Subtitles:     segments,
		Duration:      duration,
		VideoPath:     s.cache.Path(key, "mp4"),
		ThumbnailPath: s.cache.Path(key+"_thumb", "jpg"),
		SubtitlePath:  s.cache.Path(key, "srt"),
	}
	if err := s.composer.Compose(ctx, plan); err != nil {
		return nil, fmt.Errorf("video composition failed: %w", err)
	}

	info, err := s.cache.Record(ctx, key, "mp4", entity.ArtifactMeta{Duration: duration})
	if err != nil {
		return nil, err
	}

	s.recordUsage(caller, len(req.SummaryText))
	s.processed.Add(1)
	return s.buildResponse(req, key, info, start, false, len(imagePaths), len(segments)), nil
}

func (s *VideoService) buildResponse(req *entity.RenderRequest, key string, info *entity.ArtifactInfo, start time.Time, cached bool, imagesUsed, subtitleSegments int) *entity.RenderResponse {
	resp := &entity.RenderResponse{
		VideoURL:       "/video/" + key + ".mp4",
		ThumbnailURL:   "/video/" + key + "_thumb.jpg",
		Duration:       info.Duration,
		Resolution:     fmt.Sprintf("%dx%d", s.opts.Width, s.opts.Height),
		FileSize:       info.Size,
		ProcessingTime: time.Since(start).Seconds(),
		Metadata: map[string]interface{}{
			"cached": cached,
			"theme":  req.Theme,
		},
	}
	if !cached {
		resp.Metadata["images_used"] = imagesUsed
		resp.Metadata["subtitle_segments"] = subtitleSegments
	}
	if _, err := os.Stat(s.cache.Path(key, "srt")); err == nil {
		resp.SubtitleURL = "/video/" + key + ".srt"
	}
	return resp
}

// Thumbnail renders one standalone thumbnail card.
func (s *VideoService) Thumbnail(ctx context.Context, caller string, req *entity.ThumbnailRequest) (*entity.ThumbnailResponse, error) {
	start := time.Now()

	if !s.ready.Load() {
		return nil, entity.ErrNotReady
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := entity.CacheKey("thumb", req.Title, req.Subtitle, req.ImageURL, req.Theme, req.Layout)

	if info, ok, err := s.cache.Lookup(ctx, key, "jpg"); err != nil {
		return nil, err
	} else if ok {
		return s.thumbnailResponse(key, info, start), nil
	}

	imagePath := ""
	if req.ImageURL != "" {
		tmp, err := os.CreateTemp("", "thumb-img-*")
		if err != nil {
			return nil, fmt.Errorf("create temp file: %w", err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		if err := s.downloader.Fetch(ctx, req.ImageURL, tmp.Name()); err != nil {
			s.log.Warn(ctx, "Thumbnail image fetch failed, using theme background: %v", err)
		} else {
			imagePath = tmp.Name()
		}
	}

	card := entity.ThumbnailCard{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		ImagePath: imagePath,
		Theme:     s.themes.Get(req.Theme),
		Width:     thumbWidth,
		Height:    thumbHeight,
	}
	if err := s.composer.Thumbnail(ctx, card, s.cache.Path(key, "jpg")); err != nil {
		return nil, fmt.Errorf("thumbnail rendering failed: %w", err)
	}

	info, err := s.cache.Record(ctx, key, "jpg", entity.ArtifactMeta{})
	if err != nil {
		return nil, err
	}
	return s.thumbnailResponse(key, info, start), nil
}

func (s *VideoService) thumbnailResponse(key string, info *entity.ArtifactInfo, start time.Time) *entity.ThumbnailResponse {
	return &entity.ThumbnailResponse{
		ThumbnailURL:   "/video/" + key + ".jpg",
		Dimensions:     map[string]int{"width": thumbWidth, "height": thumbHeight},
		FileSize:       info.Size,
		Format:         "JPEG",
		ProcessingTime: time.Since(start).Seconds(),
	}
}

func (s *VideoService) checkBudget(ctx context.Context, caller string, chars int) error {
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

func (s *VideoService) recordUsage(caller string, chars int) {
	if s.limiter == nil {
		return
	}
	go func() {
		if err := s.limiter.Record(context.Background(), caller, chars); err != nil {
			s.log.Warn(context.Background(), "Usage record failed: %v", err)
		}
	}()
}
