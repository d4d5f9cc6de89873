package types

import (
	"encoding/json"
	"fmt"
)

// CompilerConfig is the subset of a tsconfig document pkgforge reads. The
// whole document is kept in Raw so stages can look at anything else.
type CompilerConfig struct {
	Extends         string          `json:"extends,omitempty"`
	CompilerOptions CompilerOptions `json:"compilerOptions"`
	Include         []string        `json:"include,omitempty"`
	Exclude         []string        `json:"exclude,omitempty"`

	Raw map[string]any `json:"-"`
}

// CompilerOptions mirrors tsconfig compilerOptions.
type CompilerOptions struct {
	OutDir      string `json:"outDir"`
	RootDir     string `json:"rootDir,omitempty"`
	Declaration bool   `json:"declaration,omitempty"`
	Module      string `json:"module,omitempty"`
	Target      string `json:"target,omitempty"`
}

// ParseCompilerConfig decodes a compiler configuration artifact and checks
// that it declares an output directory.
func ParseCompilerConfig(data []byte) (*CompilerConfig, error) {
	var cfg CompilerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing compiler config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg.Raw); err != nil {
		return nil, fmt.Errorf("parsing compiler config: %w", err)
	}
	if cfg.CompilerOptions.OutDir == "" {
		return nil, fmt.Errorf("compiler config: compilerOptions.outDir is required")
	}
	return &cfg, nil
}
