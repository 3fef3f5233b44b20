package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a single note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(context.Background())
		if err != nil {
			return err
		}

		note, ok := store.Get(args[0])
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Note not found: %s\n", args[0])
			return nil
		}

		out := cmd.OutOrStdout()
		if showJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(note)
		}

		fmt.Fprintf(out, "%s\n\n%s\n\n", note.Title, note.Content)
		fmt.Fprintf(out, "id:      %s\n", note.ID)
		fmt.Fprintf(out, "created: %s\n", humanize.Time(note.Created()))
		fmt.Fprintf(out, "updated: %s\n", humanize.Time(note.Updated()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
