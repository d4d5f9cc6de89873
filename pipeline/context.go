package pipeline

import "github.com/initializ/pkgforge/types"

// BuildContext carries one package's state through its build pipeline. It is
// created fresh per package and never shared between packages.
type BuildContext struct {
	Name           string
	Version        string
	Assets         []string
	ProjectFolder  string
	ProjectFile    string
	TargetFolder   string
	CompilerConfig *types.CompilerConfig

	GeneratedFiles map[string]string // relPath -> absPath
	Warnings       []string
	Verbose        bool
}

// NewBuildContext creates a BuildContext for the named package with
// initialized maps.
func NewBuildContext(name, version string) *BuildContext {
	return &BuildContext{
		Name:           name,
		Version:        version,
		GeneratedFiles: make(map[string]string),
	}
}

// AddFile records a generated file in the build context.
func (bc *BuildContext) AddFile(relPath, absPath string) {
	bc.GeneratedFiles[relPath] = absPath
}

// AddWarning appends a warning message to the build context.
func (bc *BuildContext) AddWarning(msg string) {
	bc.Warnings = append(bc.Warnings, msg)
}
