// Package backup preserves the pre-formatting content of every file
// presubmit rewrites.
//
// Each run gets a fresh numbered revision directory under
// <root>/<user>: the first run writes to 0, the next to 1, and so on.
// Before a file is overwritten, [Stash] copies it into the revision
// directory under the repository's basename, keeping its
// repository-relative layout so a whole run can be inspected or
// restored as a unit.
package backup
