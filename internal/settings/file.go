package settings

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"sound-mixer-engine/internal/audio"
)

var _ audio.Codec = (*FileCodec)(nil)

// FileCodec keeps the volume snapshot in a JSON file
type FileCodec struct {
	path string
}

// NewFileCodec creates a codec for the snapshot file at path
func NewFileCodec(path string) *FileCodec {
	return &FileCodec{path: path}
}

// Load reads the snapshot file. A missing file unwraps to fs.ErrNotExist.
func (c *FileCodec) Load() (audio.Snapshot, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return audio.Snapshot{}, &audio.LoadError{Source: c.path, Err: err}
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		return audio.Snapshot{}, &audio.LoadError{Source: c.path, Err: err}
	}
	return snap, nil
}

// Save replaces the snapshot file. The write goes to a temporary file that is
// renamed over the old one, so readers never see a partial document.
func (c *FileCodec) Save(s audio.Snapshot) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".soundSettings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpPath); statErr == nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close settings file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	log.Printf("Saved volume settings to %s", c.path)
	return nil
}

// Close is a no-op
func (c *FileCodec) Close() error {
	return nil
}
