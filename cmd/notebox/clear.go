package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebox/pkg/core"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all notes",
	Long:  `Clear removes every note after an explicit confirmation. Use --yes to confirm non-interactively.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}

		var confirm core.Confirmer = newPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
		if clearYes {
			confirm = core.ConfirmFunc(func(string) bool { return true })
		}

		cleared, err := store.ClearAll(ctx, confirm)
		if err := reportWrite(cmd.ErrOrStderr(), err); err != nil {
			return err
		}

		if !cleared {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted, nothing deleted.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All notes deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
}
