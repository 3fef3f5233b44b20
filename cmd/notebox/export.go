package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebox/pkg/core"
	"github.com/aretw0/notebox/pkg/export"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes to a spreadsheet",
	Long:  `Export writes every note (ignoring any search) to notes-YYYY-MM-DD.xlsx or .csv.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		format := cfg.Export.Format
		if cmd.Flags().Changed("format") {
			format = exportFormat
		}
		dir := cfg.Export.Dir
		if cmd.Flags().Changed("out") {
			dir = exportDir
		}

		parsed, err := export.ParseFormat(format)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Export is not available: %v\n", err)
			return nil
		}
		sink, err := export.New(parsed, export.Options{Dir: dir})
		if err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}

		records, err := store.Export()
		if errors.Is(err, core.ErrNothingToExport) {
			fmt.Fprintln(cmd.OutOrStdout(), "No notes to export.")
			return nil
		}
		if err != nil {
			return err
		}

		path, err := sink.Write(ctx, records)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d note(s) to %s\n", len(records), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "Export format (xlsx, csv)")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "Output directory")
}
