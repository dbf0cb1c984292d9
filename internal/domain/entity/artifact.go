package entity

import "time"

// ArtifactMeta is what the producing side knows about an artifact before it
// lands in the cache.
type ArtifactMeta struct {
	Duration float64
	Engine   string
}

// ArtifactInfo describes a cached artifact. Once written under a key the file
// is treated as immutable; the info recorded at store time is authoritative
// for every later hit.
type ArtifactInfo struct {
	Key       string
	Ext       string
	Path      string
	Size      int64
	Duration  float64
	Engine    string
	CreatedAt time.Time
}

// CacheStats are the counters exposed on /metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
