package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notebox"
	"github.com/aretw0/notebox/pkg/core"
	"github.com/aretw0/notebox/pkg/export"
)

// Config is the CLI configuration.
// Precedence: defaults, then the YAML file, then NOTEBOX_* variables, then flags.
type Config struct {
	Adapter string       `yaml:"adapter" env:"ADAPTER"`
	Path    string       `yaml:"path" env:"PATH"`
	Key     string       `yaml:"key" env:"KEY"`
	Unsafe  bool         `yaml:"unsafe" env:"UNSAFE"`
	Export  ExportConfig `yaml:"export" envPrefix:"EXPORT_"`
}

// ExportConfig controls where and how exports are written.
type ExportConfig struct {
	Dir    string `yaml:"dir" env:"DIR"`
	Format string `yaml:"format" env:"FORMAT"`
}

func defaultConfig() Config {
	return Config{
		Adapter: "fs",
		Key:     core.DefaultKey,
		Export: ExportConfig{
			Dir:    ".",
			Format: string(export.FormatXLSX),
		},
	}
}

// loadConfig resolves the configuration. An explicit path must exist;
// otherwise the file is looked up at the notebox root and may be absent.
func loadConfig(path string, explicit bool) (Config, error) {
	c := defaultConfig()

	if path == "" {
		path = defaultConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: "NOTEBOX_"}); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	return c, nil
}

func defaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	if root, err := notebox.FindRoot(wd); err == nil {
		return filepath.Join(root, notebox.ConfigFileName)
	}
	return filepath.Join(wd, notebox.ConfigFileName)
}
