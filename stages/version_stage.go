package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/initializ/pkgforge/pipeline"
)

// VersionStage writes the package manifest into the target folder with its
// version set to the build version.
type VersionStage struct {
	File string
}

func newVersionStage(opts map[string]any) (pipeline.Stage, error) {
	file, err := stringOpt(opts, "file", "package.json")
	if err != nil {
		return nil, err
	}
	return &VersionStage{File: file}, nil
}

func (s *VersionStage) Name() string { return "stamp-version" }

func (s *VersionStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	if bc.Version == "" {
		return fmt.Errorf("no build version set")
	}
	src := filepath.Join(bc.ProjectFolder, s.File)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.File, err)
	}

	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parsing %s: %w", s.File, err)
	}
	manifest["version"] = bc.Version

	out, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", s.File, err)
	}
	out = append(out, '\n')

	if err := os.MkdirAll(bc.TargetFolder, 0755); err != nil {
		return fmt.Errorf("creating target folder: %w", err)
	}
	dst := filepath.Join(bc.TargetFolder, filepath.Base(s.File))
	if err := os.WriteFile(dst, out, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}

	bc.AddFile(filepath.Base(s.File), dst)
	return nil
}
