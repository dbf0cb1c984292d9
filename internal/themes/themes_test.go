package themes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFallsBackToDefault(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)

	assert.Equal(t, "news", r.Get("news").Name)
	assert.Equal(t, "modern", r.Get("no-such-theme").Name)
	assert.Equal(t, "modern", r.Get("").Name)
}

func TestOverlayFromTemplatesDir(t *testing.T) {
	dir := t.TempDir()
	overlay := `{"name": "brand", "background_color": "#123456", "title_size": 90}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brand.json"), []byte(overlay), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0644))

	r, err := NewRegistry(dir)
	require.NoError(t, err)

	brand := r.Get("brand")
	assert.Equal(t, "#123456", brand.Background)
	assert.Equal(t, 90, brand.TitleSize)
	// Unset fields inherit the default theme's values.
	assert.Equal(t, "white", brand.TitleColor)

	// Built-ins plus the one valid overlay.
	assert.Equal(t, 6, r.Count())
}

func TestMissingTemplatesDirIsFine(t *testing.T) {
	r, err := NewRegistry(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, 5, r.Count())
}
