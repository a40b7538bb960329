// Presubmit prepares a branch for merging by running changed Python files
// through external formatters, linters, and a type checker.
//
// Files it rewrites are first copied into a numbered per-user revision
// directory, so any reformat can be recovered. Failures surface the failing
// tool's own exit code, making the binary suitable for git hooks and CI.
//
// Usage:
//
//	presubmit                         # format, lint and type-check changed files
//	presubmit --check                 # fail instead of rewriting (hook/CI mode)
//	presubmit --all-files --lint      # lint every tracked file in scope
//	presubmit --file pkg/util.py      # run on one file, bypassing scope lists
//	presubmit watch                   # reformat files as they change
//	presubmit hook install            # install the pre-commit hook
//
// See https://github.com/presubmit-dev/presubmit for full documentation.
package main
