package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDirName is the directory marking a notebox root and holding its data.
const DataDirName = ".notebox"

// ConfigFileName is the optional configuration file at a notebox root.
const ConfigFileName = ".notebox.yaml"

// FindRoot recursively looks upwards for a notebox root indicator.
// Indicators are: a .notebox directory or a .notebox.yaml file.
// If found, returns the absolute path to the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		// Check for indicators
		if hasFile(dir, DataDirName) || hasFile(dir, ConfigFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
