package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editTitle   string
	editContent string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Update the title and/or content of a note",
	Long:  `Edit loads a note as a draft, overlays the given flags and saves it back. createdAt is preserved.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}

		draft, ok := store.Get(id)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Note not found: %s\n", id)
			return nil
		}
		if cmd.Flags().Changed("title") {
			draft.Title = editTitle
		}
		if cmd.Flags().Changed("content") {
			draft.Content = editContent
		}

		note, err := store.Upsert(ctx, draft.Title, draft.Content, draft.ID)
		if printValidation(cmd, err) {
			return errValidation
		}
		if err := reportWrite(cmd.ErrOrStderr(), err); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note updated: %s\n", note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
}
