package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/initializ/pkgforge/pipeline"
)

// CleanStage removes the package's target folder.
type CleanStage struct{}

func newCleanStage(map[string]any) (pipeline.Stage, error) { return &CleanStage{}, nil }

func (s *CleanStage) Name() string { return "clean" }

func (s *CleanStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	rel, err := filepath.Rel(bc.ProjectFolder, bc.TargetFolder)
	if err != nil {
		return fmt.Errorf("resolving target folder: %w", err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to remove %s: not inside %s", bc.TargetFolder, bc.ProjectFolder)
	}
	if err := os.RemoveAll(bc.TargetFolder); err != nil {
		return fmt.Errorf("removing %s: %w", bc.TargetFolder, err)
	}
	return nil
}
