package stages

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/initializ/pkgforge/pipeline"
	"github.com/initializ/pkgforge/types"
)

// newTestContext lays out a package folder with a dist target folder.
func newTestContext(t *testing.T) *pipeline.BuildContext {
	t.Helper()
	root := t.TempDir()
	bc := pipeline.NewBuildContext("core", "1.4.0")
	bc.ProjectFolder = filepath.Join(root, "core")
	bc.ProjectFile = filepath.Join(bc.ProjectFolder, types.DefaultConfigFile)
	bc.TargetFolder = filepath.Join(bc.ProjectFolder, "dist")
	if err := os.MkdirAll(bc.ProjectFolder, 0755); err != nil {
		t.Fatal(err)
	}
	return bc
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := Default()
	stages, err := r.Resolve([]types.StepRef{
		{Name: "clean"},
		{Name: "compile", With: map[string]any{"command": []any{"tsc", "-b"}}},
		{Name: "copy-assets", With: map[string]any{"from": "src"}},
		{Name: "stamp-version"},
		{Name: "manifest"},
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	var names []string
	for _, s := range stages {
		names = append(names, s.Name())
	}
	want := []string{"clean", "compile", "copy-assets", "stamp-version", "manifest"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if got := stages[1].(*CommandStage).Command; !reflect.DeepEqual(got, []string{"tsc", "-b"}) {
		t.Errorf("compile command = %v", got)
	}
	if got := stages[2].(*CopyAssetsStage).From; got != "src" {
		t.Errorf("copy-assets from = %q", got)
	}
}

func TestRegistry_ResolveErrors(t *testing.T) {
	r := Default()
	tests := []struct {
		name string
		ref  types.StepRef
	}{
		{"unknown", types.StepRef{Name: "webpack"}},
		{"exec without command", types.StepRef{Name: "exec"}},
		{"bad command type", types.StepRef{Name: "compile", With: map[string]any{"command": 42}}},
		{"bad from type", types.StepRef{Name: "copy-assets", With: map[string]any{"from": []any{"a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Resolve([]types.StepRef{tt.ref}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRegistry_NilRefs(t *testing.T) {
	stages, err := Default().Resolve(nil)
	if err != nil || stages != nil {
		t.Errorf("Resolve(nil) = %v, %v", stages, err)
	}
}

func TestRegistry_Custom(t *testing.T) {
	r := NewRegistry()
	r.Register("noop", func(map[string]any) (pipeline.Stage, error) {
		return pipeline.StageFunc("noop", func(context.Context, *pipeline.BuildContext) error { return nil }), nil
	})
	if !r.Has("noop") || r.Has("clean") {
		t.Errorf("Has() mismatch")
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"noop"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestCleanStage(t *testing.T) {
	bc := newTestContext(t)
	writeFile(t, filepath.Join(bc.TargetFolder, "old.js"), "stale")

	if err := (&CleanStage{}).Execute(context.Background(), bc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if _, err := os.Stat(bc.TargetFolder); !os.IsNotExist(err) {
		t.Errorf("target folder still exists: %v", err)
	}
	if _, err := os.Stat(bc.ProjectFolder); err != nil {
		t.Errorf("project folder removed: %v", err)
	}
}

func TestCleanStage_RefusesOutsideProject(t *testing.T) {
	for _, target := range []string{".", "..", "../other"} {
		t.Run(target, func(t *testing.T) {
			bc := newTestContext(t)
			bc.TargetFolder = filepath.Join(bc.ProjectFolder, target)
			if err := (&CleanStage{}).Execute(context.Background(), bc); err == nil {
				t.Fatal("expected refusal")
			}
		})
	}
}

func TestCommandStage(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	bc := newTestContext(t)
	s := &CommandStage{StageName: "exec", Command: []string{"sh", "-c", "echo {name}@{version} > built.txt"}}

	if err := s.Execute(context.Background(), bc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(bc.ProjectFolder, "built.txt"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if strings.TrimSpace(string(data)) != "core@1.4.0" {
		t.Errorf("output = %q", data)
	}
}

func TestCommandStage_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	bc := newTestContext(t)
	s := &CommandStage{StageName: "compile", Command: []string{"sh", "-c", "echo type error >&2; exit 2"}}

	err := s.Execute(context.Background(), bc)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "type error") {
		t.Errorf("error %q should carry command output", err)
	}
}

func TestCopyAssetsStage(t *testing.T) {
	bc := newTestContext(t)
	writeFile(t, filepath.Join(bc.ProjectFolder, "src", "styles", "main.css"), "body{}")
	writeFile(t, filepath.Join(bc.ProjectFolder, "src", "index.css"), "a{}")
	writeFile(t, filepath.Join(bc.ProjectFolder, "src", "index.ts"), "export {}")
	writeFile(t, filepath.Join(bc.ProjectFolder, "src", "node_modules", "x.css"), "skip")
	bc.Assets = []string{"**/*.css", "*.svg"}

	if err := (&CopyAssetsStage{From: "src"}).Execute(context.Background(), bc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	for _, rel := range []string{"styles/main.css", "index.css"} {
		if _, err := os.Stat(filepath.Join(bc.TargetFolder, filepath.FromSlash(rel))); err != nil {
			t.Errorf("%s not copied: %v", rel, err)
		}
		if _, ok := bc.GeneratedFiles[rel]; !ok {
			t.Errorf("%s not recorded", rel)
		}
	}
	if _, err := os.Stat(filepath.Join(bc.TargetFolder, "index.ts")); !os.IsNotExist(err) {
		t.Error("index.ts should not be copied")
	}
	if _, err := os.Stat(filepath.Join(bc.TargetFolder, "node_modules")); !os.IsNotExist(err) {
		t.Error("node_modules should be skipped")
	}
	if len(bc.Warnings) != 1 || !strings.Contains(bc.Warnings[0], "*.svg") {
		t.Errorf("warnings = %v", bc.Warnings)
	}
}

func TestCopyAssetsStage_NoAssets(t *testing.T) {
	bc := newTestContext(t)
	if err := (&CopyAssetsStage{}).Execute(context.Background(), bc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(bc.GeneratedFiles) != 0 {
		t.Errorf("GeneratedFiles = %v", bc.GeneratedFiles)
	}
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"*.css", "main.css", true},
		{"*.css", "styles/main.css", false},
		{"**/*.css", "main.css", true},
		{"**/*.css", "a/b/c/main.css", true},
		{"assets/**", "assets/img/logo.png", true},
		{"assets/**", "other/logo.png", false},
		{"a/**/b/*.txt", "a/b/x.txt", true},
		{"a/**/b/*.txt", "a/x/y/b/x.txt", true},
		{"a/**/b/*.txt", "a/x/y/c/x.txt", false},
		{"[", "x", false},
	}
	for _, tt := range tests {
		if got := matchGlob(tt.pattern, tt.name); got != tt.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func TestVersionStage(t *testing.T) {
	bc := newTestContext(t)
	writeFile(t, filepath.Join(bc.ProjectFolder, "package.json"), `{"name": "@acme/core", "version": "0.0.0", "main": "index.js"}`)

	if err := (&VersionStage{File: "package.json"}).Execute(context.Background(), bc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(bc.TargetFolder, "package.json"))
	if err != nil {
		t.Fatalf("reading stamped package.json: %v", err)
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		t.Fatal(err)
	}
	if pkg["version"] != "1.4.0" || pkg["name"] != "@acme/core" {
		t.Errorf("package.json = %v", pkg)
	}
	if _, ok := bc.GeneratedFiles["package.json"]; !ok {
		t.Error("package.json not recorded")
	}
}

func TestVersionStage_Errors(t *testing.T) {
	bc := newTestContext(t)
	if err := (&VersionStage{File: "package.json"}).Execute(context.Background(), bc); err == nil {
		t.Error("expected error for missing package.json")
	}

	bc.Version = ""
	writeFile(t, filepath.Join(bc.ProjectFolder, "package.json"), `{}`)
	if err := (&VersionStage{File: "package.json"}).Execute(context.Background(), bc); err == nil {
		t.Error("expected error for empty version")
	}
}

func TestManifestStage(t *testing.T) {
	bc := newTestContext(t)
	bc.AddFile("index.js", filepath.Join(bc.TargetFolder, "index.js"))
	bc.AddWarning("asset pattern \"*.svg\" matched no files")
	fixed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	if err := (&ManifestStage{now: func() time.Time { return fixed }}).Execute(context.Background(), bc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(bc.TargetFolder, "build-manifest.json"))
	if err != nil {
		t.Fatalf("reading build-manifest.json: %v", err)
	}
	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("unmarshalling manifest: %v", err)
	}
	if manifest["name"] != "core" || manifest["version"] != "1.4.0" {
		t.Errorf("manifest = %v", manifest)
	}
	if manifest["built_at"] != "2026-10-15T12:00:00Z" {
		t.Errorf("built_at = %v", manifest["built_at"])
	}
	files, ok := manifest["files"].([]any)
	if !ok || len(files) != 2 {
		t.Errorf("files = %v", manifest["files"])
	}
	if _, ok := manifest["warnings"]; !ok {
		t.Error("warnings missing")
	}
}
