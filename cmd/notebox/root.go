package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebox"
	"github.com/aretw0/notebox/pkg/core"
)

var (
	verbose    bool
	configPath string
	adapter    string
	dataPath   string
	storageKey string
	unsafe     bool

	cfg Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notebox",
	Short: "A small note store with search and spreadsheet export",
	Long: `notebox keeps titled notes in a local store.
Notes can be created, edited, searched, deleted and exported to XLSX or CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		loaded, err := loadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		applyFlags(cmd, &loaded)
		cfg = loaded

		logger.Debug("configuration resolved", "adapter", cfg.Adapter, "path", cfg.Path, "key", cfg.Key)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .notebox.yaml at the notebox root)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "fs", "Storage adapter (fs, sqlite, memory)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "path", "", "Data directory (default: .notebox at the notebox root)")
	rootCmd.PersistentFlags().StringVar(&storageKey, "key", core.DefaultKey, "Storage key holding the notes")
	rootCmd.PersistentFlags().BoolVar(&unsafe, "unsafe", false, "Disable the dev sandbox under `go run`")
}

func applyFlags(cmd *cobra.Command, c *Config) {
	flags := cmd.Flags()
	if flags.Changed("adapter") {
		c.Adapter = adapter
	}
	if flags.Changed("path") {
		c.Path = dataPath
	}
	if flags.Changed("key") {
		c.Key = storageKey
	}
	if flags.Changed("unsafe") {
		c.Unsafe = unsafe
	}
}

// storageURI maps the configured data path to the adapter-specific URI.
func storageURI(c Config) (string, error) {
	path := c.Path
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		root, err := notebox.FindRoot(wd)
		if err != nil {
			root = wd
		}
		path = filepath.Join(root, notebox.DataDirName)
	}

	if c.Adapter == "sqlite" && !strings.HasSuffix(path, ".db") {
		return filepath.Join(path, "notebox.db"), nil
	}
	return path, nil
}

func openStore(ctx context.Context) (*core.Store, error) {
	uri, err := storageURI(cfg)
	if err != nil {
		return nil, err
	}

	store, err := notebox.Open(ctx, uri,
		notebox.WithAdapter(cfg.Adapter),
		notebox.WithKey(cfg.Key),
		notebox.WithDevSafety(!cfg.Unsafe),
		notebox.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes: %w", err)
	}
	return store, nil
}

// reportWrite turns a persistence warning into a notice and passes other errors through.
func reportWrite(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if core.IsPersistWarning(err) {
		fmt.Fprintf(w, "Warning: change kept for this session but not saved: %v\n", err)
		return nil
	}
	return err
}
