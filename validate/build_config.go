package validate

import (
	"fmt"

	"github.com/initializ/pkgforge/builder"
	"github.com/initializ/pkgforge/types"
)

// ValidationResult holds errors and warnings from config validation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateBuildConfig checks a BuildConfig for errors and warnings. known
// reports whether a stage name can be resolved; a nil known skips stage
// name checks.
func ValidateBuildConfig(cfg *types.BuildConfig, known func(string) bool) *ValidationResult {
	r := &ValidationResult{}

	if cfg.PackageRoot == "" {
		r.Errors = append(r.Errors, "packageRoot is required")
	}
	if len(cfg.Packages) == 0 {
		r.Warnings = append(r.Warnings, "no packages to build")
	}

	checkSteps := func(where string, refs []types.StepRef) {
		for i, ref := range refs {
			switch {
			case ref.Name == "":
				r.Errors = append(r.Errors, fmt.Sprintf("%s[%d]: stage name is required", where, i))
			case known != nil && !known(ref.Name):
				r.Errors = append(r.Errors, fmt.Sprintf("%s[%d]: unknown stage %q", where, i, ref.Name))
			}
		}
	}
	checkSteps("buildPipeline", cfg.BuildPipeline)

	seen := make(map[string]int, len(cfg.Packages))
	for i, pkg := range cfg.Packages {
		if pkg.Name == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("packages[%d]: name is required", i))
			continue
		}
		if err := builder.ValidatePackageName(pkg.Name); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("packages[%d]: name %q must match ^[\\w-]+$", i, pkg.Name))
			continue
		}
		if first, dup := seen[pkg.Name]; dup {
			r.Warnings = append(r.Warnings, fmt.Sprintf("packages[%d]: %q is already built at packages[%d]", i, pkg.Name, first))
		} else {
			seen[pkg.Name] = i
		}

		where := fmt.Sprintf("packages[%d].buildPipeline", i)
		checkSteps(where, pkg.BuildPipeline)

		steps := cfg.EffectivePipeline(pkg)
		switch {
		case steps == nil:
			r.Errors = append(r.Errors, fmt.Sprintf("packages[%d]: %q has no buildPipeline and no global buildPipeline is set", i, pkg.Name))
		case len(steps) == 0:
			r.Warnings = append(r.Warnings, fmt.Sprintf("packages[%d]: %q has an empty buildPipeline", i, pkg.Name))
		}
	}

	return r
}
