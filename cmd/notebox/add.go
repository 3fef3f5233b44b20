package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebox/pkg/core"
)

var (
	addTitle   string
	addContent string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(context.Background())
		if err != nil {
			return err
		}

		note, err := store.Upsert(context.Background(), addTitle, addContent, "")
		if printValidation(cmd, err) {
			return errValidation
		}
		if err := reportWrite(cmd.ErrOrStderr(), err); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note saved: %s\n", note.ID)
		return nil
	},
}

// errValidation signals that field errors were already printed.
var errValidation = errors.New("note not saved")

// printValidation prints each field message of a validation failure.
func printValidation(cmd *cobra.Command, err error) bool {
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	for _, field := range []string{"title", "content"} {
		if msg, ok := ve.Fields[field]; ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
		}
	}
	return true
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	addCmd.Flags().StringVar(&addContent, "content", "", "Note content")
}
