package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sound-mixer-engine/internal/audio"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved volumes",
	Long:  `Print the master, category and per-sound volumes from the configured settings backend. Unset values show the default.`,
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	store, codec, err := openStore(cmd, false)
	if err != nil {
		return err
	}
	defer codec.Close()

	out := cmd.OutOrStdout()
	catalog := audio.DefaultCatalog()

	fmt.Fprintf(out, "master  %.2f\n", store.Master())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "categories:")
	for _, tag := range audio.AllTags() {
		fmt.Fprintf(out, "  %-11s  %.2f\n", tag, store.Category(tag))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "sounds:")
	for _, id := range catalog.IDs() {
		def, err := catalog.Lookup(id)
		if err != nil {
			return err
		}
		self := store.Sound(id)
		effective := self * store.Category(def.Tag) * store.Master()
		fmt.Fprintf(out, "  %-10s  %.2f  (effective %.2f)\n", id, self, effective)
	}
	return nil
}
