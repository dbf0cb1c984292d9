package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"newsreel/internal/domain/entity"
)

// index is the SQLite sidecar recording per-artifact metadata so cache hits
// can answer duration/size/engine without re-probing media files.
type index struct {
	db *sql.DB
}

const createIndexTable = `
CREATE TABLE IF NOT EXISTS artifacts (
	key TEXT NOT NULL,
	ext TEXT NOT NULL,
	size INTEGER NOT NULL,
	duration REAL NOT NULL DEFAULT 0,
	engine TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (key, ext)
);
`

func openIndex(dbPath string) (*index, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	if _, err := db.Exec(createIndexTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate index db: %w", err)
	}
	return &index{db: db}, nil
}

func (ix *index) close() error {
	return ix.db.Close()
}

func (ix *index) get(ctx context.Context, key, ext string) (*entity.ArtifactInfo, error) {
	row := &entity.ArtifactInfo{Key: key, Ext: ext}
	err := ix.db.QueryRowContext(ctx,
		`SELECT size, duration, engine, created_at FROM artifacts WHERE key = ? AND ext = ?`,
		key, ext,
	).Scan(&row.Size, &row.Duration, &row.Engine, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index get: %w", err)
	}
	return row, nil
}

func (ix *index) put(ctx context.Context, info *entity.ArtifactInfo) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO artifacts (key, ext, size, duration, engine, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		info.Key, info.Ext, info.Size, info.Duration, info.Engine, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("index put: %w", err)
	}
	return nil
}

func (ix *index) count(ctx context.Context) (int64, error) {
	var n int64
	if err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index count: %w", err)
	}
	return n, nil
}
