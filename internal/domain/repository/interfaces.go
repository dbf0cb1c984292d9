package repository

import (
	"context"

	"newsreel/internal/domain/entity"
)

// SummaryProvider is one summarization model configuration. Implementations
// must be safe for concurrent read-only use after construction.
type SummaryProvider interface {
	Summarize(ctx context.Context, prompt entity.SummaryPrompt) (string, error)
	Model() string
}

// SpeechEngine is one speech-synthesis configuration. Synthesize writes a WAV
// file at outPath.
type SpeechEngine interface {
	Synthesize(ctx context.Context, text, voiceID, outPath string) error
	Name() string
	Available() bool
}

// AudioProcessor post-processes raw engine output (speed, volume, loudness,
// resample, container) and probes durations.
type AudioProcessor interface {
	Process(ctx context.Context, inPath, outPath string, opts entity.AudioOptions) error
	Duration(ctx context.Context, path string) (float64, error)
}

// VideoComposer assembles a video (background, title card, Ken Burns image
// pans, burned subtitles) and renders standalone thumbnails.
type VideoComposer interface {
	Compose(ctx context.Context, plan entity.RenderPlan) error
	Thumbnail(ctx context.Context, card entity.ThumbnailCard, outPath string) error
	Available() bool
}

// Downloader fetches a remote asset to a local path.
type Downloader interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// ArtifactStore is the content-addressed cache: artifacts on disk named by
// key, metadata in a sidecar index.
type ArtifactStore interface {
	Path(key, ext string) string
	Lookup(ctx context.Context, key, ext string) (*entity.ArtifactInfo, bool, error)
	StoreBytes(ctx context.Context, key, ext string, data []byte, meta entity.ArtifactMeta) (*entity.ArtifactInfo, error)
	Record(ctx context.Context, key, ext string, meta entity.ArtifactMeta) (*entity.ArtifactInfo, error)
	Stats(ctx context.Context) (entity.CacheStats, error)
}

// UsageLimiter enforces the optional per-caller daily character budget.
type UsageLimiter interface {
	Allow(ctx context.Context, caller string, chars int) (bool, error)
	Record(ctx context.Context, caller string, chars int) error
}

// Embedder produces the vector used by the semantic cache.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// SemanticCache is the optional similarity lookup consulted only after an
// exact-cache miss.
type SemanticCache interface {
	Search(ctx context.Context, text string) (string, bool, error)
	Save(ctx context.Context, text, summary string) error
}
