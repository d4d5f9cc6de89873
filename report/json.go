package report

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/initializ/pkgforge/builder"
	"github.com/initializ/pkgforge/pipeline"
)

// JSON writes one structured JSON log entry per event. Stage events are
// debug entries, only emitted when verbose is true.
type JSON struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	now     func() time.Time
}

// NewJSON creates a JSON reporter writing to w.
func NewJSON(w io.Writer, verbose bool) *JSON {
	return &JSON{w: w, verbose: verbose, now: time.Now}
}

func (l *JSON) PipelineStarted(bc *pipeline.BuildContext) {
	l.log("info", "package added", map[string]any{
		"package":       bc.Name,
		"project_file":  bc.ProjectFile,
		"target_folder": bc.TargetFolder,
	})
}

func (l *JSON) StageStarted(bc *pipeline.BuildContext, stage string) {
	if !l.verbose {
		return
	}
	l.log("debug", "stage started", map[string]any{"package": bc.Name, "stage": stage})
}

func (l *JSON) PackageSucceeded(res builder.PackageResult) {
	for _, w := range res.Warnings {
		l.log("warn", w, map[string]any{"package": res.Name})
	}
	l.log("info", "package built", map[string]any{
		"package":      res.Name,
		"project_file": res.ProjectFile,
		"duration_ms":  res.Duration.Milliseconds(),
	})
}

func (l *JSON) PackageFailed(res builder.PackageResult) {
	l.log("error", "package failed", map[string]any{
		"package":      res.Name,
		"project_file": res.ProjectFile,
		"error":        res.Err.Error(),
		"duration_ms":  res.Duration.Milliseconds(),
	})
}

func (l *JSON) RunFinished(r *builder.Report) {
	failed := make([]string, 0)
	for _, res := range r.Failed() {
		failed = append(failed, res.Name)
	}
	level := "info"
	if len(failed) > 0 {
		level = "error"
	}
	l.log(level, "run finished", map[string]any{
		"version":  r.Version,
		"packages": len(r.Results),
		"failed":   failed,
	})
}

func (l *JSON) log(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	entry["time"] = l.now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg
	for k, v := range fields {
		entry[k] = v
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	data, _ := json.Marshal(entry)
	data = append(data, '\n')
	l.w.Write(data) //nolint:errcheck
}
