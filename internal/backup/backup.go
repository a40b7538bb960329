package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
)

// CorruptRootError reports a non-numeric entry inside the per-user
// revision root. Numbered directories are the only thing presubmit ever
// creates there, so anything else means the directory has been tampered
// with and the numbering can no longer be trusted.
type CorruptRootError struct {
	Dir   string
	Entry string
}

func (e *CorruptRootError) Error() string {
	return fmt.Sprintf("unexpected entry %q: %s should only contain numbered directories", e.Entry, e.Dir)
}

// Dir creates the next numbered revision directory under root for the
// current user and returns its path. Numbering starts at 0 and each
// invocation takes max+1. The directory is claimed with an exclusive
// mkdir; on collision with a concurrent invocation the root is
// rescanned and the next number tried.
func Dir(root string) (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolving current user: %w", err)
	}
	base := filepath.Join(root, u.Username)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("creating revision root: %w", err)
	}

	for {
		next, err := nextRevision(base)
		if err != nil {
			return "", err
		}
		dir := filepath.Join(base, strconv.Itoa(next))
		err = os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("creating revision directory: %w", err)
		}
		// Another invocation claimed this number first; rescan.
	}
}

func nextRevision(base string) (int, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return 0, fmt.Errorf("reading revision root: %w", err)
	}
	next := 0
	for _, entry := range entries {
		n, err := strconv.Atoi(entry.Name())
		if err != nil || n < 0 {
			return 0, &CorruptRootError{Dir: base, Entry: entry.Name()}
		}
		if n >= next {
			next = n + 1
		}
	}
	return next, nil
}

// Stash copies the file at path into revDir before it is overwritten,
// preserving its layout relative to repoRoot under the repository's
// basename. Returns the destination path.
func Stash(revDir, repoRoot, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(repoRoot, abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s against repository root: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", path, repoRoot)
	}

	dest := filepath.Join(revDir, filepath.Base(repoRoot), rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return dest, nil
}
