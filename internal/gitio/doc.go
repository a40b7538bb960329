// Package gitio answers the version-control questions presubmit asks by
// shelling out to the git CLI.
//
// It computes merge bases, lists files changed between two refs (dropping
// paths that no longer exist in the working tree), lists every tracked
// file, and resolves the repository root. [DiffNoIndex] diffs two
// arbitrary files outside the index for check-mode reporting.
//
// Failures carry the git subprocess's stderr so the operator sees what
// git saw.
package gitio
