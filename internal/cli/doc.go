// Package cli wires together the Cobra command tree for the presubmit binary.
//
// It defines the root command, which runs the pipeline itself, and the
// subcommands (watch, hook, config, version), binds flags, reads
// configuration, invokes the engine, and returns deterministic exit codes
// for git hooks and CI gating.
package cli
