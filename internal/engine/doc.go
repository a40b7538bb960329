// Package engine orchestrates the presubmit pipeline. It resolves the file
// list for a run, backs files up before rewriting them, and drives the
// requested stages in order, stopping the whole batch at the first failure.
package engine
