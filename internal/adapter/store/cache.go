// Package store implements the content-addressed artifact cache shared by
// the services: files on disk named by a digest of the request's semantic
// fields, with a SQLite sidecar index holding the metadata a cache hit must
// report without re-probing the artifact.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
)

// ArtifactStore is the on-disk cache. There is no expiry, no size cap and no
// write lock: concurrent misses for one key race to the same path and the
// last writer wins, which is tolerable only because writes are idempotent
// per key.
type ArtifactStore struct {
	dir    string
	index  *index
	hits   atomic.Int64
	misses atomic.Int64
}

var _ repository.ArtifactStore = (*ArtifactStore)(nil)

// indexFilename is the sidecar database living inside the cache dir. It is
// never a servable artifact.
const indexFilename = "index.db"

// Open creates the cache directory if needed and opens the sidecar index.
func Open(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	ix, err := openIndex(filepath.Join(dir, indexFilename))
	if err != nil {
		return nil, err
	}
	return &ArtifactStore{dir: dir, index: ix}, nil
}

// Close releases the index database.
func (s *ArtifactStore) Close() error {
	return s.index.close()
}

// Dir returns the cache directory, used by the file-serving handlers.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Path returns where the artifact for key lives or will live.
func (s *ArtifactStore) Path(key, ext string) string {
	return filepath.Join(s.dir, key+"."+ext)
}

// Lookup returns the artifact info when the file named by key exists. A
// missing index row degrades to file stats rather than failing the hit.
func (s *ArtifactStore) Lookup(ctx context.Context, key, ext string) (*entity.ArtifactInfo, bool, error) {
	path := s.Path(key, ext)
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.misses.Add(1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat artifact: %w", err)
	}

	info := &entity.ArtifactInfo{
		Key:       key,
		Ext:       ext,
		Path:      path,
		Size:      st.Size(),
		CreatedAt: st.ModTime(),
	}
	if row, err := s.index.get(ctx, key, ext); err == nil && row != nil {
		info.Duration = row.Duration
		info.Engine = row.Engine
		info.CreatedAt = row.CreatedAt
	}
	s.hits.Add(1)
	return info, true, nil
}

// StoreBytes writes an artifact under the key and records its metadata.
// A failed write must fail the request: the response would otherwise
// reference a URL that 404s.
func (s *ArtifactStore) StoreBytes(ctx context.Context, key, ext string, data []byte, meta entity.ArtifactMeta) (*entity.ArtifactInfo, error) {
	path := s.Path(key, ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	return s.Record(ctx, key, ext, meta)
}

// Record indexes an artifact that a tool already wrote at Path(key, ext).
func (s *ArtifactStore) Record(ctx context.Context, key, ext string, meta entity.ArtifactMeta) (*entity.ArtifactInfo, error) {
	path := s.Path(key, ext)
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	info := &entity.ArtifactInfo{
		Key:       key,
		Ext:       ext,
		Path:      path,
		Size:      st.Size(),
		Duration:  meta.Duration,
		Engine:    meta.Engine,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.index.put(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// Stats reports entry and hit/miss counters for /metrics.
func (s *ArtifactStore) Stats(ctx context.Context) (entity.CacheStats, error) {
	entries, err := s.index.count(ctx)
	if err != nil {
		return entity.CacheStats{}, err
	}
	return entity.CacheStats{
		Entries: entries,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}, nil
}

// SafeFilename rejects names that would escape the cache directory when
// serving artifacts by name, and the sidecar index itself.
func SafeFilename(name string) bool {
	return name != "" &&
		name != indexFilename &&
		name == filepath.Base(name) &&
		!strings.HasPrefix(name, ".") &&
		!strings.Contains(name, "..")
}
