package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBuildConfig_ResolvesPackageRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkgforge.yaml")
	os.WriteFile(path, []byte("packageRoot: packages\nbuildPipeline: [clean]\npackages: [core]\n"), 0644)

	cfg, err := LoadBuildConfig(path)
	if err != nil {
		t.Fatalf("LoadBuildConfig() error: %v", err)
	}
	if cfg.PackageRoot != filepath.Join(dir, "packages") {
		t.Errorf("PackageRoot = %q", cfg.PackageRoot)
	}
	if len(cfg.Packages) != 1 || cfg.Packages[0].Name != "core" {
		t.Errorf("Packages = %+v", cfg.Packages)
	}
}

func TestLoadBuildConfig_AbsolutePackageRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "elsewhere")
	path := filepath.Join(dir, "pkgforge.yaml")
	os.WriteFile(path, []byte("packageRoot: "+root+"\npackages: []\n"), 0644)

	cfg, err := LoadBuildConfig(path)
	if err != nil {
		t.Fatalf("LoadBuildConfig() error: %v", err)
	}
	if cfg.PackageRoot != root {
		t.Errorf("PackageRoot = %q, want %q", cfg.PackageRoot, root)
	}
}

func TestLoadBuildConfig_Missing(t *testing.T) {
	_, err := LoadBuildConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want not exist", err)
	}
}

func TestFileArtifactLoader(t *testing.T) {
	files := map[string]string{
		"/p/a/tsconfig-build.json": `{"compilerOptions": {"outDir": "dist"}}`,
		"/p/b/tsconfig-build.json": `{"compilerOptions": {}}`,
		"/p/c/tsconfig-build.json": `{"compilerOptions": `,
	}
	l := &FileArtifactLoader{ReadFile: func(path string) ([]byte, error) {
		data, ok := files[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return []byte(data), nil
	}}

	cfg, err := l.Load("/p/a/tsconfig-build.json")
	if err != nil {
		t.Fatalf("Load(a) error: %v", err)
	}
	if cfg.CompilerOptions.OutDir != "dist" {
		t.Errorf("outDir = %q", cfg.CompilerOptions.OutDir)
	}

	if _, err := l.Load("/p/b/tsconfig-build.json"); err == nil || !strings.Contains(err.Error(), "outDir") {
		t.Errorf("Load(b) error = %v, want outDir schema error", err)
	}
	if _, err := l.Load("/p/c/tsconfig-build.json"); err == nil {
		t.Error("Load(c) expected error for malformed JSON")
	}
	if _, err := l.Load("/p/missing/tsconfig-build.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want not exist", err)
	}
}

func TestFileArtifactLoader_Disk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsconfig-build.json")
	os.WriteFile(path, []byte(`{"compilerOptions": {"outDir": "lib"}}`), 0644)

	cfg, err := (&FileArtifactLoader{}).Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CompilerOptions.OutDir != "lib" {
		t.Errorf("outDir = %q", cfg.CompilerOptions.OutDir)
	}
}
