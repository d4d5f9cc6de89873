// Package builder sequences the build of a multi-package project. Packages
// are built strictly in configuration order; each package runs through its
// own pipeline and a failing package never stops the ones after it.
package builder

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/initializ/pkgforge/pipeline"
	"github.com/initializ/pkgforge/types"
)

var packageNamePattern = regexp.MustCompile(`^[\w-]+$`)

// ErrBadPackageName is wrapped by the ConfigError returned from Run when a
// package name is not made of word characters and hyphens.
var ErrBadPackageName = errors.New("bad package name")

// ConfigError reports a configuration problem that aborts the whole run.
type ConfigError struct {
	Index   int
	Package string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("packages[%d]: %v %q", e.Index, e.Err, e.Package)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ValidatePackageName reports whether name can be used as a package folder.
func ValidatePackageName(name string) error {
	if !packageNamePattern.MatchString(name) {
		return ErrBadPackageName
	}
	return nil
}

// ArtifactLoader loads the compiler configuration artifact of one package.
type ArtifactLoader interface {
	Load(path string) (*types.CompilerConfig, error)
}

// Reporter receives progress and outcome events from a run.
type Reporter interface {
	PipelineStarted(bc *pipeline.BuildContext)
	StageStarted(bc *pipeline.BuildContext, stage string)
	PackageSucceeded(res PackageResult)
	PackageFailed(res PackageResult)
	RunFinished(r *Report)
}

// Package is a normalized package descriptor with resolved stages. A nil
// Assets or Pipeline falls back to the Config value.
type Package struct {
	Name     string
	Assets   []string
	Pipeline []pipeline.Stage
}

// Config is a build configuration with every pipeline resolved to stages.
type Config struct {
	PackageRoot string
	ConfigFile  string
	Assets      []string
	Pipeline    []pipeline.Stage
	Packages    []Package
}

// Builder runs build configurations.
type Builder struct {
	loader   ArtifactLoader
	reporter Reporter
	verbose  bool
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithReporter sets the reporter. The default discards every event.
func WithReporter(r Reporter) Option {
	return func(b *Builder) { b.reporter = r }
}

// WithVerbose marks every build context as verbose.
func WithVerbose(v bool) Option {
	return func(b *Builder) { b.verbose = v }
}

// New creates a Builder that loads compiler configuration with loader.
func New(loader ArtifactLoader, opts ...Option) *Builder {
	b := &Builder{loader: loader, reporter: nopReporter{}, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run builds every package of cfg in order. Package failures are reported
// and collected in the returned Report; the only error Run returns is a
// *ConfigError, in which case nothing was built.
func (b *Builder) Run(ctx context.Context, version string, cfg *Config) (*Report, error) {
	for i, pkg := range cfg.Packages {
		if err := ValidatePackageName(pkg.Name); err != nil {
			return nil, &ConfigError{Index: i, Package: pkg.Name, Err: err}
		}
	}

	report := &Report{Version: version, Results: make([]PackageResult, 0, len(cfg.Packages))}
	for _, pkg := range cfg.Packages {
		report.Results = append(report.Results, b.buildPackage(ctx, version, cfg, pkg))
	}

	b.reporter.RunFinished(report)
	return report, nil
}

func (b *Builder) buildPackage(ctx context.Context, version string, cfg *Config, pkg Package) PackageResult {
	start := b.now()
	res := PackageResult{Name: pkg.Name, ProjectFile: projectFile(cfg, pkg.Name)}

	bc, err := b.NewContext(pkg, version, cfg)
	if err == nil {
		stages := pkg.Pipeline
		if stages == nil {
			stages = cfg.Pipeline
		}
		p := pipeline.New(stages...).Observe(func(bc *pipeline.BuildContext, s pipeline.Stage) {
			b.reporter.StageStarted(bc, s.Name())
		})
		err = p.Run(ctx, bc)
		res.TargetFolder = bc.TargetFolder
		res.Warnings = bc.Warnings
	}

	res.Err = err
	res.Duration = b.now().Sub(start)
	if err != nil {
		b.reporter.PackageFailed(res)
	} else {
		b.reporter.PackageSucceeded(res)
	}
	return res
}

type nopReporter struct{}

func (nopReporter) PipelineStarted(*pipeline.BuildContext)      {}
func (nopReporter) StageStarted(*pipeline.BuildContext, string) {}
func (nopReporter) PackageSucceeded(PackageResult)              {}
func (nopReporter) PackageFailed(PackageResult)                 {}
func (nopReporter) RunFinished(*Report)                         {}
