package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsreel/internal/domain/entity"
)

func TestCacheKeyDeterministic(t *testing.T) {
	k1 := entity.CacheKey("hello world", "default", "1")
	k2 := entity.CacheKey("hello world", "default", "1")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)
}

func TestCacheKeyFieldBoundaries(t *testing.T) {
	// Field separation must matter: ("ab","c") and ("a","bc") are different
	// semantic inputs.
	assert.NotEqual(t, entity.CacheKey("ab", "c"), entity.CacheKey("a", "bc"))
	assert.NotEqual(t, entity.CacheKey("text", "voice", "1.5"), entity.CacheKey("text", "voice", "1.0"))
}

func TestStoreLookupRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	key := entity.CacheKey("some synthesized text", "default", "1")

	_, ok, err := s.Lookup(ctx, key, "wav")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := s.StoreBytes(ctx, key, "wav", []byte("RIFF-ish payload"), entity.ArtifactMeta{
		Duration: 2.5,
		Engine:   "piper",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(16), stored.Size)

	info, ok, err := s.Lookup(ctx, key, "wav")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored.Size, info.Size)
	assert.Equal(t, 2.5, info.Duration)
	assert.Equal(t, "piper", info.Engine)
	assert.Equal(t, s.Path(key, "wav"), info.Path)
}

func TestStoreStats(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, _, _ = s.Lookup(ctx, entity.CacheKey("absent"), "mp4")
	_, err = s.StoreBytes(ctx, entity.CacheKey("present"), "mp4", []byte("x"), entity.ArtifactMeta{})
	require.NoError(t, err)
	_, _, _ = s.Lookup(ctx, entity.CacheKey("present"), "mp4")

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestSafeFilename(t *testing.T) {
	assert.True(t, SafeFilename("abc123.wav"))
	assert.False(t, SafeFilename("../escape.wav"))
	assert.False(t, SafeFilename("nested/path.wav"))
	assert.False(t, SafeFilename(".hidden"))
	assert.False(t, SafeFilename(""))
	// The sidecar index lives in the same directory but is not an artifact.
	assert.False(t, SafeFilename("index.db"))
}
