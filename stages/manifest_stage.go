package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/initializ/pkgforge/pipeline"
)

// ManifestStage writes build-manifest.json into the target folder.
type ManifestStage struct {
	now func() time.Time
}

func newManifestStage(map[string]any) (pipeline.Stage, error) { return &ManifestStage{}, nil }

func (s *ManifestStage) Name() string { return "manifest" }

func (s *ManifestStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	now := time.Now
	if s.now != nil {
		now = s.now
	}

	const name = "build-manifest.json"
	outPath := filepath.Join(bc.TargetFolder, name)
	bc.AddFile(name, outPath)

	files := make([]string, 0, len(bc.GeneratedFiles))
	for rel := range bc.GeneratedFiles {
		files = append(files, rel)
	}
	sort.Strings(files)

	manifest := map[string]any{
		"name":          bc.Name,
		"version":       bc.Version,
		"built_at":      now().UTC().Format(time.RFC3339),
		"project_file":  bc.ProjectFile,
		"target_folder": bc.TargetFolder,
		"files":         files,
	}
	if len(bc.Warnings) > 0 {
		manifest["warnings"] = bc.Warnings
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling build manifest: %w", err)
	}
	if err := os.MkdirAll(bc.TargetFolder, 0755); err != nil {
		return fmt.Errorf("creating target folder: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
