package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	lcadapter "github.com/aretw0/notebox/pkg/adapters/lifecycle"
	"github.com/aretw0/notebox/pkg/core"
)

var watchSearch string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the note list on screen and refresh it on every change",
	Long: `Watch renders the note list and re-renders it whenever the stored
collection changes, including writes from other notebox processes.
Only the fs adapter supports watching.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		store.Search(watchSearch)

		changes, unsubscribe := store.Subscribe(16)
		defer unsubscribe()

		if err := store.Watch(ctx); err != nil {
			return fmt.Errorf("cannot watch %s storage: %w", cfg.Adapter, err)
		}

		source := lcadapter.NewSource(changes)
		if err := source.Start(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderList(out, store.List(), store.Filter())
		fmt.Fprintln(out, "\nWatching for changes (Ctrl+C to stop)...")

		for ev := range source.Events() {
			slog.Debug("store event", "event", ev.String())
			if e, ok := ev.(core.Event); ok && e.Type != core.EventReload {
				continue
			}
			fmt.Fprintln(out, "\n---")
			renderList(out, store.List(), store.Filter())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchSearch, "search", "s", "", "Only show notes whose title or content contains this text")
}
