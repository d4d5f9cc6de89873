// Package schemas embeds the JSON Schemas used to validate pkgforge inputs.
package schemas

import _ "embed"

// CompilerConfigSchema describes the per-package compiler configuration
// artifact.
//
//go:embed compiler-config.schema.json
var CompilerConfigSchema []byte

// BuildConfigSchema describes pkgforge.yaml.
//
//go:embed build-config.schema.json
var BuildConfigSchema []byte
