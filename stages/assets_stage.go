package stages

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/initializ/pkgforge/pipeline"
)

// CopyAssetsStage copies files matching the context's asset globs from the
// project folder (or its From subfolder) into the target folder, keeping
// their relative paths. Globs use forward slashes and may contain "**".
type CopyAssetsStage struct {
	From string
}

func newCopyAssetsStage(opts map[string]any) (pipeline.Stage, error) {
	from, err := stringOpt(opts, "from", "")
	if err != nil {
		return nil, err
	}
	return &CopyAssetsStage{From: from}, nil
}

func (s *CopyAssetsStage) Name() string { return "copy-assets" }

func (s *CopyAssetsStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	if len(bc.Assets) == 0 {
		return nil
	}
	base := filepath.Join(bc.ProjectFolder, s.From)
	matched := make([]bool, len(bc.Assets))

	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == bc.TargetFolder || (p != base && skipDir(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		hit := false
		for i, pattern := range bc.Assets {
			if matchGlob(pattern, rel) {
				matched[i] = true
				hit = true
			}
		}
		if !hit {
			return nil
		}

		dst := filepath.Join(bc.TargetFolder, filepath.FromSlash(rel))
		if err := copyFile(p, dst); err != nil {
			return fmt.Errorf("copying %s: %w", rel, err)
		}
		bc.AddFile(rel, dst)
		return nil
	})
	if err != nil {
		return err
	}

	for i, ok := range matched {
		if !ok {
			bc.AddWarning(fmt.Sprintf("asset pattern %q matched no files", bc.Assets[i]))
		}
	}
	return nil
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

// matchGlob matches a slash-separated name against pattern, where a "**"
// segment matches zero or more path segments.
func matchGlob(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pat, name []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			pat = pat[1:]
			if len(pat) == 0 {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if matchSegments(pat, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, err := path.Match(pat[0], name[0]); err != nil || !ok {
			return false
		}
		pat, name = pat[1:], name[1:]
	}
	return len(name) == 0
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
