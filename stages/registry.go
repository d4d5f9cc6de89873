// Package stages provides the stock pkgforge build stages and the registry
// that resolves stage names from pkgforge.yaml.
package stages

import (
	"fmt"
	"sort"
	"strings"

	"github.com/initializ/pkgforge/pipeline"
	"github.com/initializ/pkgforge/types"
)

// Factory creates a stage from the options under a step's "with" key.
type Factory func(opts map[string]any) (pipeline.Stage, error)

// Registry maps stage names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default returns a Registry holding every stock stage.
func Default() *Registry {
	r := NewRegistry()
	r.Register("clean", newCleanStage)
	r.Register("compile", newCompileStage)
	r.Register("exec", newExecStage)
	r.Register("copy-assets", newCopyAssetsStage)
	r.Register("stamp-version", newVersionStage)
	r.Register("manifest", newManifestStage)
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered stage names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve creates one stage per step reference, in order.
func (r *Registry) Resolve(refs []types.StepRef) ([]pipeline.Stage, error) {
	if refs == nil {
		return nil, nil
	}
	out := make([]pipeline.Stage, 0, len(refs))
	for i, ref := range refs {
		f, ok := r.factories[ref.Name]
		if !ok {
			return nil, fmt.Errorf("[%d]: unknown stage %q (known: %s)", i, ref.Name, strings.Join(r.Names(), ", "))
		}
		s, err := f(ref.With)
		if err != nil {
			return nil, fmt.Errorf("[%d] %s: %w", i, ref.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func stringOpt(opts map[string]any, key, def string) (string, error) {
	v, ok := opts[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %s must be a string, got %T", key, v)
	}
	return s, nil
}

// stringsOpt accepts a list of strings or a single space-separated string.
func stringsOpt(opts map[string]any, key string, def []string) ([]string, error) {
	v, ok := opts[key]
	if !ok || v == nil {
		return def, nil
	}
	switch val := v.(type) {
	case string:
		return strings.Fields(val), nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("option %s[%d] must be a string, got %T", key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("option %s must be a list of strings, got %T", key, v)
}
