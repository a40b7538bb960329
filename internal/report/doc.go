// Package report formats pipeline run records for display or machine
// consumption.
//
// Four formats are supported: "text" is a human-readable summary (the
// default), "json" is the full structured run record, "markdown" suits
// pull request comments, and "sarif" is SARIF v2.1.0 for upload to code
// scanning services.
//
// Use [GetWriter] to obtain a [Writer] for a format string, or [WriteRun]
// to write straight to a file path or stdout.
package report
