package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}

		removed, err := store.Delete(ctx, id)
		if err := reportWrite(cmd.ErrOrStderr(), err); err != nil {
			return err
		}

		if !removed {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to delete: %s\n", id)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
