// Package validate provides validation for pkgforge build configurations and
// compiler configuration artifacts.
package validate

import (
	"fmt"
	"sync"

	"github.com/initializ/pkgforge/schemas"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

type lazySchema struct {
	source []byte
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

func (l *lazySchema) get() (*gojsonschema.Schema, error) {
	l.once.Do(func() {
		l.schema, l.err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(l.source))
	})
	return l.schema, l.err
}

var (
	compilerConfigSchema = &lazySchema{source: schemas.CompilerConfigSchema}
	buildConfigSchema    = &lazySchema{source: schemas.BuildConfigSchema}
)

// ValidateCompilerConfig validates raw JSON bytes against the compiler
// configuration schema. It returns a slice of validation error descriptions
// and an error if the schema cannot be compiled or the document is not JSON.
func ValidateCompilerConfig(jsonData []byte) ([]string, error) {
	schema, err := compilerConfigSchema.get()
	if err != nil {
		return nil, fmt.Errorf("compiling compiler config schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("validating compiler config: %w", err)
	}
	return resultErrors(result), nil
}

// ValidateBuildConfigDocument validates a raw pkgforge.yaml (or JSON)
// document against the build configuration schema.
func ValidateBuildConfigDocument(data []byte) ([]string, error) {
	schema, err := buildConfigSchema.get()
	if err != nil {
		return nil, fmt.Errorf("compiling build config schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing build config: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validating build config: %w", err)
	}
	return resultErrors(result), nil
}

func resultErrors(result *gojsonschema.Result) []string {
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs
}
