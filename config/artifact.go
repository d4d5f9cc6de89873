package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/initializ/pkgforge/types"
	"github.com/initializ/pkgforge/validate"
)

// FileArtifactLoader loads compiler configuration artifacts by path. It
// satisfies builder.ArtifactLoader.
type FileArtifactLoader struct {
	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Load reads the artifact at path, checks it against the compiler
// configuration schema and decodes it.
func (l *FileArtifactLoader) Load(path string) (*types.CompilerConfig, error) {
	read := l.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("reading compiler config: %w", err)
	}

	errs, err := validate.ValidateCompilerConfig(data)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid compiler config: %s", strings.Join(errs, "; "))
	}
	return types.ParseCompilerConfig(data)
}
