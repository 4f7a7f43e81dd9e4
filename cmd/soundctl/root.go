package main

import (
	"errors"
	"io/fs"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sound-mixer-engine/internal/audio"
	"sound-mixer-engine/internal/settings"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "soundctl",
	Short:         "Inspect the sound catalog and edit saved volumes",
	Long:          `soundctl reads the mixer configuration and edits the persisted volume snapshot without starting the mixer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/settings.json", "path to the engine configuration file")
}

// openStore loads the configured codec and the stored snapshot. A snapshot
// that cannot be read leaves the store at defaults, except that commands
// which write back only accept an absent snapshot, so a damaged one is
// never overwritten.
func openStore(cmd *cobra.Command, write bool) (*audio.Store, settings.Codec, error) {
	m := settings.NewManager(configPath)
	if err := m.Load(); err != nil {
		return nil, nil, err
	}

	codec, err := settings.OpenCodec(cmd.Context(), m.GetConfig())
	if err != nil {
		return nil, nil, err
	}

	store := audio.NewStore()
	if err := store.Load(codec); err != nil {
		var loadErr *audio.LoadError
		missing := errors.Is(err, fs.ErrNotExist) || errors.Is(err, audio.ErrSnapshotMissing)
		if !errors.As(err, &loadErr) || (write && !missing) {
			_ = codec.Close()
			return nil, nil, err
		}
		log.WithError(err).Warn("Using default volumes")
	}
	return store, codec, nil
}
