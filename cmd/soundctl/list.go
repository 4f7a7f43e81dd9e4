package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sound-mixer-engine/internal/audio"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog sounds by tag",
	Long:  `Display every sound in the built-in catalog grouped by mixing tag, followed by the named lists.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	catalog := audio.DefaultCatalog()

	for _, tag := range catalog.Tags() {
		fmt.Fprintf(out, "%s:\n", tag)
		for _, id := range catalog.Tagged(tag) {
			def, err := catalog.Lookup(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-10s  polyphony %d  %s\n", id, def.Polyphony, def.Resource)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Lists:")
	for _, list := range catalog.Lists() {
		members, err := catalog.Members(list)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-6s  %v\n", list, members)
	}
	return nil
}
