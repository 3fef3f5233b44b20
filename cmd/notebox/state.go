package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/notebox"
	"github.com/aretw0/notebox/pkg/core"
)

type component interface {
	introspection.Introspectable
	introspection.Component
}

type componentState struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the internal state of the store and its storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		uri, err := storageURI(cfg)
		if err != nil {
			return err
		}
		storage, err := notebox.OpenStorage(ctx, uri,
			notebox.WithAdapter(cfg.Adapter),
			notebox.WithDevSafety(!cfg.Unsafe),
			notebox.WithLogger(slog.Default()),
		)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		store := core.NewStore(storage, core.WithKey(cfg.Key), core.WithLogger(slog.Default()))
		store.Load(ctx)

		components := []componentState{describe(store)}
		if intro, ok := storage.(component); ok {
			components = append(components, describe(intro))
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(components)
	},
}

func describe(c component) componentState {
	return componentState{Type: c.ComponentType(), State: c.State()}
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
