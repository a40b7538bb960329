// Package config loads and merges presubmit configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PRESUBMIT_PYTHON, PRESUBMIT_SINCE, etc.)
//  3. Project config file (.presubmit.yaml in the working directory)
//  4. Built-in defaults
//
// The file is YAML and lives in the repository it gates, so a branch
// checkout carries its own tool and scope settings. Use [Load] to obtain
// a merged [Config], [Save] to write one out, and [SetField] to update a
// single key.
package config
