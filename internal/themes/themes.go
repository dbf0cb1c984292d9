// Package themes holds the video template registry: built-in themes overlaid
// by JSON files from the templates directory, hot-reloaded on change.
package themes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"newsreel/internal/domain/entity"
)

const defaultTheme = "modern"

func builtins() map[string]entity.Theme {
	return map[string]entity.Theme{
		"modern": {
			Name: "modern", Background: "#1a1a1a",
			TitleSize: 80, TitleColor: "white",
			SubtitleSize: 40, SubtitleColor: "white",
			AccentColor: "#3b82f6",
		},
		"classic": {
			Name: "classic", Background: "#000080",
			TitleSize: 70, TitleColor: "gold",
			SubtitleSize: 36, SubtitleColor: "white",
			AccentColor: "#f59e0b",
		},
		"minimalist": {
			Name: "minimalist", Background: "#ffffff",
			TitleSize: 60, TitleColor: "black",
			SubtitleSize: 32, SubtitleColor: "black",
			AccentColor: "#6b7280",
		},
		"news": {
			Name: "news", Background: "#0f172a",
			TitleSize: 64, TitleColor: "white",
			SubtitleSize: 36, SubtitleColor: "#cbd5e1",
			AccentColor: "#ef4444",
		},
		"tech": {
			Name: "tech", Background: "#111827",
			TitleSize: 68, TitleColor: "white",
			SubtitleSize: 38, SubtitleColor: "#9ca3af",
			AccentColor: "#10b981",
		},
	}
}

// Registry resolves theme names to settings. Safe for concurrent use; the
// watcher goroutine replaces overlays while requests read.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]entity.Theme
	dir    string
}

// NewRegistry builds the registry from built-ins plus any JSON overlays found
// in dir. An empty dir means built-ins only.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{themes: builtins(), dir: dir}
	if dir != "" {
		if err := r.Reload(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Get resolves a theme by name, falling back to the default for unknown names.
func (r *Registry) Get(name string) entity.Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.themes[strings.ToLower(name)]; ok {
		return t
	}
	return r.themes[defaultTheme]
}

// Count reports how many themes are loaded, for /health.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.themes)
}

// Reload rebuilds the theme table from built-ins plus the JSON overlays.
// A malformed overlay file is skipped, not fatal.
func (r *Registry) Reload() error {
	themes := builtins()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.replace(themes)
			return nil
		}
		return fmt.Errorf("read templates dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, e.Name()))
		if err != nil {
			continue
		}
		var t entity.Theme
		if err := json.Unmarshal(data, &t); err != nil || t.Name == "" {
			continue
		}
		fillDefaults(&t)
		themes[strings.ToLower(t.Name)] = t
	}

	r.replace(themes)
	return nil
}

func (r *Registry) replace(themes map[string]entity.Theme) {
	r.mu.Lock()
	r.themes = themes
	r.mu.Unlock()
}

func fillDefaults(t *entity.Theme) {
	def := builtins()[defaultTheme]
	if t.Background == "" {
		t.Background = def.Background
	}
	if t.TitleSize == 0 {
		t.TitleSize = def.TitleSize
	}
	if t.TitleColor == "" {
		t.TitleColor = def.TitleColor
	}
	if t.SubtitleSize == 0 {
		t.SubtitleSize = def.SubtitleSize
	}
	if t.SubtitleColor == "" {
		t.SubtitleColor = def.SubtitleColor
	}
	if t.AccentColor == "" {
		t.AccentColor = def.AccentColor
	}
}
