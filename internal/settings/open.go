package settings

import (
	"context"
	"fmt"
	"os"

	"sound-mixer-engine/internal/audio"
)

// Codec is an audio.Codec that holds resources until closed
type Codec interface {
	audio.Codec
	Close() error
}

// OpenCodec opens the snapshot backend selected by cfg
func OpenCodec(ctx context.Context, cfg *Config) (Codec, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileCodec(cfg.SettingsPath), nil
	case BackendSQLite:
		return NewSQLiteCodec(cfg.SQLitePath)
	case BackendS3:
		return NewS3Codec(ctx, cfg.S3, os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"))
	default:
		return nil, fmt.Errorf("unknown settings backend %q", cfg.Backend)
	}
}
