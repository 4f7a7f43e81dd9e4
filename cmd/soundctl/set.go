package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"sound-mixer-engine/internal/audio"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change a saved volume",
	Long:  `Change the master, a category or a single sound volume in the persisted snapshot.`,
}

var setMasterCmd = &cobra.Command{
	Use:   "master <volume>",
	Short: "Set the master volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateStore(cmd, args[0], func(store *audio.Store, v float64) {
			store.SetMaster(v)
		})
	},
}

var setCategoryCmd = &cobra.Command{
	Use:   "category <tag> <volume>",
	Short: "Set a category volume",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := audio.ParseTag(args[0])
		if err != nil {
			return err
		}
		return updateStore(cmd, args[1], func(store *audio.Store, v float64) {
			store.SetCategory(tag, v)
		})
	},
}

var setSoundCmd = &cobra.Command{
	Use:   "sound <name> <volume>",
	Short: "Set a single sound's volume",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := audio.ParseSoundID(args[0])
		if err != nil {
			return err
		}
		return updateStore(cmd, args[1], func(store *audio.Store, v float64) {
			store.SetSound(id, v)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset every saved volume to the default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, codec, err := openStore(cmd, true)
		if err != nil {
			return err
		}
		defer codec.Close()

		store.Restore(audio.DefaultSnapshot())
		if err := store.Save(codec); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Volumes reset")
		return nil
	},
}

func init() {
	setCmd.AddCommand(setMasterCmd, setCategoryCmd, setSoundCmd)
	rootCmd.AddCommand(setCmd, resetCmd)
}

func updateStore(cmd *cobra.Command, raw string, apply func(*audio.Store, float64)) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid volume %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid volume %q: not a finite number", raw)
	}

	store, codec, err := openStore(cmd, true)
	if err != nil {
		return err
	}
	defer codec.Close()

	apply(store, v)
	if err := store.Save(codec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", cmd.Name())
	return nil
}
