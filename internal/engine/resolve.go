package engine

import (
	"os"
	"path/filepath"

	"github.com/presubmit-dev/presubmit/internal/gitio"
	"github.com/presubmit-dev/presubmit/internal/scope"
)

// Resolve computes the ordered file list for a run. An explicit file
// bypasses the allow and deny lists; the other modes intersect git's view
// with the formattable scope. Duplicate basenames across directories are
// rejected here, before any file is touched.
func (e *Engine) Resolve(sel Selection) ([]string, error) {
	files, err := e.selectFiles(sel)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicateNames(files); err != nil {
		return nil, err
	}
	return files, nil
}

func (e *Engine) selectFiles(sel Selection) ([]string, error) {
	if sel.File != "" {
		if _, err := os.Stat(sel.File); err != nil {
			return nil, &NotFoundError{Path: sel.File}
		}
		return []string{filepath.Clean(sel.File)}, nil
	}

	formattable, err := e.Formattable()
	if err != nil {
		return nil, err
	}

	if sel.AllFiles {
		tracked, err := gitio.TrackedFiles()
		if err != nil {
			return nil, err
		}
		return scope.Intersect(tracked, formattable), nil
	}

	base, err := gitio.MergeBase(e.Config.Since, "HEAD")
	if err != nil {
		return nil, err
	}
	changed, err := gitio.ChangedFiles(base, "HEAD")
	if err != nil {
		return nil, err
	}
	return scope.Intersect(changed, formattable), nil
}

// Formattable returns the allow-list expansion minus the deny-list
// expansion, sorted.
func (e *Engine) Formattable() ([]string, error) {
	allow, err := scope.Expand(e.Config.Scope.Allowlist)
	if err != nil {
		return nil, err
	}
	deny, err := scope.Expand(e.Config.Scope.Denylist)
	if err != nil {
		return nil, err
	}
	return scope.Subtract(allow, deny), nil
}

func checkDuplicateNames(files []string) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		if prev, ok := seen[name]; ok && prev != f {
			return &DuplicateNameError{Name: name}
		}
		seen[name] = f
	}
	return nil
}
