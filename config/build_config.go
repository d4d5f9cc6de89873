// Package config loads pkgforge build configurations and per-package
// compiler configuration artifacts from disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/initializ/pkgforge/types"
)

// LoadBuildConfig reads and parses a pkgforge.yaml file from the given path.
// A relative packageRoot is resolved against the file's directory.
func LoadBuildConfig(path string) (*types.BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading build config %s: %w", path, err)
	}
	cfg, err := types.ParseBuildConfig(data)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.PackageRoot) {
		cfg.PackageRoot = filepath.Join(filepath.Dir(path), cfg.PackageRoot)
	}
	return cfg, nil
}
