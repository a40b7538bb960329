package report

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter outputs a human-readable run summary.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, run *Run) error {
	ew := &errWriter{w: w}

	ew.printf("presubmit: %d files\n", len(run.Files))
	if run.RevisionDir != "" {
		ew.printf("Backups: %s\n", run.RevisionDir)
	}
	ew.println(strings.Repeat("─", 60))

	for _, f := range run.Files {
		status := "ok"
		if f.Failed() {
			status = "FAIL"
		}
		ew.printf("%-4s  %s", status, f.Path)
		if f.Changed {
			ew.printf("  (rewritten)")
		}
		if f.Diffstat != "" {
			ew.printf("  %s", f.Diffstat)
		}
		ew.println("")

		if f.Failed() {
			ew.printf("      %s\n", f.Failure)
			if out := failureOutput(f); out != "" {
				for _, line := range strings.Split(out, "\n") {
					ew.printf("      %s\n", line)
				}
			}
		}
	}

	ew.println(strings.Repeat("─", 60))
	passed, failed, changed := counts(run)
	ew.printf("%d passed, %d failed, %d rewritten in %dms\n",
		passed, failed, changed, run.DurationMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
