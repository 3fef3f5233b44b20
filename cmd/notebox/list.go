package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/notebox/pkg/core"
)

var (
	listJSON   bool
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(context.Background())
		if err != nil {
			return err
		}

		store.Search(listSearch)
		notes := store.List()

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(notes)
		}

		renderList(cmd.OutOrStdout(), notes, store.Filter())
		return nil
	},
}

// renderList prints one card per note.
func renderList(w io.Writer, notes []core.Note, filter string) {
	fmt.Fprintf(w, "%d note(s)\n", len(notes))

	if len(notes) == 0 {
		if filter != "" {
			fmt.Fprintf(w, "No notes match %q.\n", filter)
		} else {
			fmt.Fprintln(w, "No notes yet. Add your first one with `notebox add`.")
		}
		return
	}

	for _, n := range notes {
		title := n.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(w, "\n%s  [%s]\n", title, n.ID)
		fmt.Fprintf(w, "  Updated %s\n", humanize.Time(n.Updated()))
		for _, line := range strings.Split(n.Content, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only show notes whose title or content contains this text")
}
