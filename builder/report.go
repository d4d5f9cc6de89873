package builder

import (
	"errors"
	"fmt"
	"time"
)

// PackageResult is the outcome of one package's pipeline.
type PackageResult struct {
	Name         string
	ProjectFile  string
	TargetFolder string
	Err          error
	Warnings     []string
	Duration     time.Duration
}

// OK reports whether the package built successfully.
func (r PackageResult) OK() bool { return r.Err == nil }

// Report collects the outcome of every attempted package in build order.
type Report struct {
	Version string
	Results []PackageResult
}

// Failed returns the results of packages that failed.
func (r *Report) Failed() []PackageResult {
	var out []PackageResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Succeeded returns the results of packages that built.
func (r *Report) Succeeded() []PackageResult {
	var out []PackageResult
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of every failed package, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
	}
	return errors.Join(errs...)
}
