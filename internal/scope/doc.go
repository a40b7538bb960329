// Package scope decides which repository paths presubmit may touch.
//
// The universe of formattable paths is defined by two list files of glob
// patterns: an allowlist and a denylist. [Expand] turns one list file
// into the sorted set of existing paths its patterns match, and
// [Subtract] and [Intersect] combine those sets with the changed or
// tracked file lists from git.
package scope
