package gitio

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// MergeBase returns the most recent common ancestor of two refs.
func MergeBase(start, end string) (string, error) {
	out, err := gitOutput("merge-base", start, end)
	if err != nil {
		return "", fmt.Errorf("git merge-base %s %s: %w", start, end, err)
	}
	return strings.TrimSpace(out), nil
}

// ChangedFiles returns the paths changed between two refs that still
// exist in the working tree. A file deleted since from is silently
// dropped: there is nothing left to format.
func ChangedFiles(from, to string) ([]string, error) {
	out, err := gitOutput("diff", "--name-only", from, to)
	if err != nil {
		return nil, fmt.Errorf("git diff --name-only %s %s: %w", from, to, err)
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := os.Stat(line); err != nil {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// TrackedFiles returns every path tracked at HEAD.
func TrackedFiles() ([]string, error) {
	out, err := gitOutput("ls-tree", "-r", "--full-tree", "--name-only", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git ls-tree: %w", err)
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// RepoRoot returns the absolute path of the working tree root.
func RepoRoot() (string, error) {
	out, err := gitOutput("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// DiffNoIndex returns the unified diff between two files outside the
// index. git exits 1 when the files differ; that is the expected case,
// not an error, so a non-zero exit only fails when no output came back.
func DiffNoIndex(a, b string) (string, error) {
	out, err := gitOutput("diff", "--no-index", a, b)
	if err != nil && out == "" {
		return "", fmt.Errorf("git diff --no-index: %w", err)
	}
	return out, nil
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
