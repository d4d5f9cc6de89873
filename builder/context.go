package builder

import (
	"fmt"
	"path/filepath"

	"github.com/initializ/pkgforge/pipeline"
	"github.com/initializ/pkgforge/types"
)

// NewContext resolves the locations and compiler configuration of pkg and
// returns a fresh BuildContext for it. The package name is expected to be
// valid already.
func (b *Builder) NewContext(pkg Package, version string, cfg *Config) (*pipeline.BuildContext, error) {
	projectFolder := filepath.Join(cfg.PackageRoot, pkg.Name)
	projectFile := projectFile(cfg, pkg.Name)

	compilerCfg, err := b.loader.Load(projectFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", projectFile, err)
	}
	if compilerCfg == nil || compilerCfg.CompilerOptions.OutDir == "" {
		return nil, fmt.Errorf("loading %s: compilerOptions.outDir is required", projectFile)
	}

	assets := pkg.Assets
	if assets == nil {
		assets = cfg.Assets
	}

	bc := pipeline.NewBuildContext(pkg.Name, version)
	bc.Assets = assets
	bc.ProjectFolder = projectFolder
	bc.ProjectFile = projectFile
	bc.TargetFolder = filepath.Join(projectFolder, compilerCfg.CompilerOptions.OutDir)
	bc.CompilerConfig = compilerCfg
	bc.Verbose = b.verbose

	b.reporter.PipelineStarted(bc)
	return bc, nil
}

func projectFile(cfg *Config, name string) string {
	file := cfg.ConfigFile
	if file == "" {
		file = types.DefaultConfigFile
	}
	return filepath.Join(cfg.PackageRoot, name, file)
}

// StageResolver turns step references from a config file into stages.
type StageResolver interface {
	Resolve(refs []types.StepRef) ([]pipeline.Stage, error)
}

// NewConfig resolves every pipeline of a parsed build configuration. Nil
// package pipelines stay nil so they fall back to the global one.
func NewConfig(file *types.BuildConfig, resolver StageResolver) (*Config, error) {
	global, err := resolver.Resolve(file.BuildPipeline)
	if err != nil {
		return nil, fmt.Errorf("buildPipeline: %w", err)
	}

	cfg := &Config{
		PackageRoot: file.PackageRoot,
		ConfigFile:  file.ConfigFile,
		Assets:      file.Assets,
		Pipeline:    global,
		Packages:    make([]Package, 0, len(file.Packages)),
	}
	for i, d := range file.Packages {
		pkg := Package{Name: d.Name, Assets: d.Assets}
		if d.BuildPipeline != nil {
			stages, err := resolver.Resolve(d.BuildPipeline)
			if err != nil {
				return nil, fmt.Errorf("packages[%d] (%s).buildPipeline: %w", i, d.Name, err)
			}
			if stages == nil {
				stages = []pipeline.Stage{}
			}
			pkg.Pipeline = stages
		}
		cfg.Packages = append(cfg.Packages, pkg)
	}
	return cfg, nil
}
