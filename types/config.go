// Package types holds configuration types for pkgforge.yaml and the
// per-package compiler configuration artifact.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the compiler configuration artifact looked up in each
// package folder when BuildConfig.ConfigFile is empty.
const DefaultConfigFile = "tsconfig-build.json"

// BuildConfig represents the top-level pkgforge.yaml configuration.
type BuildConfig struct {
	Version       string              `yaml:"version,omitempty" json:"version,omitempty"`
	PackageRoot   string              `yaml:"packageRoot" json:"packageRoot"`
	ConfigFile    string              `yaml:"configFile,omitempty" json:"configFile,omitempty"`
	Assets        []string            `yaml:"assets,omitempty" json:"assets,omitempty"`
	BuildPipeline []StepRef           `yaml:"buildPipeline,omitempty" json:"buildPipeline,omitempty"`
	Packages      []PackageDescriptor `yaml:"packages" json:"packages"`
}

// PackageDescriptor names one package folder under PackageRoot. In the file
// it is either a bare name or a mapping with per-package overrides. A nil
// Assets or BuildPipeline means "use the global value"; an empty list is an
// override.
type PackageDescriptor struct {
	Name          string    `yaml:"name" json:"name"`
	Assets        []string  `yaml:"assets,omitempty" json:"assets,omitempty"`
	BuildPipeline []StepRef `yaml:"buildPipeline,omitempty" json:"buildPipeline,omitempty"`
}

// UnmarshalYAML accepts either a scalar package name or a mapping.
func (d *PackageDescriptor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*d = PackageDescriptor{Name: value.Value}
		return nil
	}
	type plain PackageDescriptor
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*d = PackageDescriptor(p)
	return nil
}

// UnmarshalJSON accepts either a string package name or an object.
func (d *PackageDescriptor) UnmarshalJSON(data []byte) error {
	if s, ok, err := jsonString(data); ok || err != nil {
		*d = PackageDescriptor{Name: s}
		return err
	}
	type plain PackageDescriptor
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = PackageDescriptor(p)
	return nil
}

// StepRef references a build stage by name. In the file it is either a bare
// stage name or a mapping with stage options under "with".
type StepRef struct {
	Name string         `yaml:"name" json:"name"`
	With map[string]any `yaml:"with,omitempty" json:"with,omitempty"`
}

// UnmarshalYAML accepts either a scalar stage name or a mapping.
func (s *StepRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = StepRef{Name: value.Value}
		return nil
	}
	type plain StepRef
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = StepRef(p)
	return nil
}

// UnmarshalJSON accepts either a string stage name or an object.
func (s *StepRef) UnmarshalJSON(data []byte) error {
	if name, ok, err := jsonString(data); ok || err != nil {
		*s = StepRef{Name: name}
		return err
	}
	type plain StepRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = StepRef(p)
	return nil
}

func jsonString(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return "", false, nil
	}
	var s string
	err := json.Unmarshal(data, &s)
	return s, true, err
}

// ParseBuildConfig parses raw YAML (or JSON) bytes into a BuildConfig.
func ParseBuildConfig(data []byte) (*BuildConfig, error) {
	var cfg BuildConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing build config: %w", err)
	}
	if cfg.PackageRoot == "" {
		return nil, fmt.Errorf("build config: packageRoot is required")
	}
	return &cfg, nil
}

// EffectivePipeline returns the package pipeline when set, else the global one.
func (c *BuildConfig) EffectivePipeline(d PackageDescriptor) []StepRef {
	if d.BuildPipeline != nil {
		return d.BuildPipeline
	}
	return c.BuildPipeline
}
