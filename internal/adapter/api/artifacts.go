package api

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"newsreel/internal/adapter/store"
	"newsreel/internal/domain/entity"
)

// serveArtifact streams a cached file by name. Names that could escape the
// cache directory are treated as not found rather than rejected differently,
// so probing reveals nothing.
func serveArtifact(c *fiber.Ctx, dir string) error {
	name := c.Params("filename")
	if !store.SafeFilename(name) {
		return writeError(c, entity.ErrNotFound)
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return writeError(c, entity.ErrNotFound)
	}
	return c.SendFile(path)
}
