package scope

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand reads newline-separated glob patterns from listPath and expands
// them against the working directory, returning the sorted set of
// matched paths. Blank lines and lines starting with # are skipped.
// Patterns may use ** to match across directory levels.
//
// Every matched path must still exist when expansion finishes; a path
// that vanished mid-run means the working tree is shifting under us and
// is reported as an error.
func Expand(listPath string) ([]string, error) {
	data, err := os.ReadFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("reading glob list: %w", err)
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		pattern := strings.TrimSpace(line)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q in %s: %w", pattern, listPath, err)
		}
		for _, m := range matches {
			m = filepath.Clean(m)
			if _, ok := seen[m]; ok {
				continue
			}
			if _, err := os.Stat(m); err != nil {
				return nil, fmt.Errorf("glob %q in %s matched %s, which no longer exists", pattern, listPath, m)
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// Subtract returns the members of include that are not in exclude,
// sorted.
func Subtract(include, exclude []string) []string {
	drop := make(map[string]struct{}, len(exclude))
	for _, p := range exclude {
		drop[p] = struct{}{}
	}
	var result []string
	for _, p := range include {
		if _, ok := drop[p]; ok {
			continue
		}
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

// Intersect returns the members of a that are also in b, sorted and
// deduplicated.
func Intersect(a, b []string) []string {
	keep := make(map[string]struct{}, len(b))
	for _, p := range b {
		keep[p] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	var result []string
	for _, p := range a {
		if _, ok := keep[p]; !ok {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}
