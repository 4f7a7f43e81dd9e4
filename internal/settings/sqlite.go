package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"sound-mixer-engine/internal/audio"
)

var _ audio.Codec = (*SQLiteCodec)(nil)

// snapshotName is the row key used for the volume snapshot
const snapshotName = "soundSettings"

// SQLiteCodec keeps the volume snapshot as a JSON blob in a SQLite table
type SQLiteCodec struct {
	db   *sql.DB
	path string
}

// NewSQLiteCodec opens (and creates if needed) the database at path
func NewSQLiteCodec(path string) (*SQLiteCodec, error) {
	if path == "" {
		path = "soundSettings.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS volume_snapshots (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create volume_snapshots table: %w", err)
	}
	return &SQLiteCodec{db: db, path: path}, nil
}

// Load reads the snapshot row
func (c *SQLiteCodec) Load() (audio.Snapshot, error) {
	return c.LoadContext(context.Background())
}

// LoadContext reads the snapshot row. A missing row unwraps to audio.ErrSnapshotMissing.
func (c *SQLiteCodec) LoadContext(ctx context.Context) (audio.Snapshot, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM volume_snapshots WHERE name = ?`, snapshotName,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return audio.Snapshot{}, &audio.LoadError{Source: c.path, Err: audio.ErrSnapshotMissing}
	}
	if err != nil {
		return audio.Snapshot{}, &audio.LoadError{Source: c.path, Err: err}
	}

	snap, err := DecodeSnapshot(payload)
	if err != nil {
		return audio.Snapshot{}, &audio.LoadError{Source: c.path, Err: err}
	}
	return snap, nil
}

// Save replaces the snapshot row
func (c *SQLiteCodec) Save(s audio.Snapshot) error {
	return c.SaveContext(context.Background(), s)
}

// SaveContext replaces the snapshot row
func (c *SQLiteCodec) SaveContext(ctx context.Context, s audio.Snapshot) error {
	payload, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, `INSERT INTO volume_snapshots (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		snapshotName, payload, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("write volume snapshot: %w", err)
	}

	log.Printf("Saved volume settings to %s", c.path)
	return nil
}

// Close closes the database
func (c *SQLiteCodec) Close() error {
	return c.db.Close()
}
