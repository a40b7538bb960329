package report

import (
	"fmt"
	"io"
)

// MarkdownWriter outputs a PR-comment-friendly run summary.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, run *Run) error {
	passed, failed, changed := counts(run)

	fmt.Fprintf(w, "## Presubmit\n\n")
	fmt.Fprintf(w, "| Files | Passed | Failed | Rewritten |\n")
	fmt.Fprintf(w, "|-------|--------|--------|-----------|\n")
	fmt.Fprintf(w, "| %d | %d | %d | %d |\n\n", len(run.Files), passed, failed, changed)

	if failed == 0 {
		fmt.Fprintln(w, "All files passed. :white_check_mark:")
		return nil
	}

	for _, f := range run.Files {
		if !f.Failed() {
			continue
		}
		fmt.Fprintf(w, "<details>\n<summary>:x: <code>%s</code> (%s)</summary>\n\n", f.Path, f.Failure)
		if out := failureOutput(f); out != "" {
			fmt.Fprintf(w, "```text\n%s\n```\n\n", out)
		}
		if f.Diffstat != "" {
			fmt.Fprintf(w, "Pending reformat: `%s`\n\n", f.Diffstat)
		}
		fmt.Fprintf(w, "</details>\n\n")
	}

	fmt.Fprintf(w, "*%d files in %dms*\n", len(run.Files), run.DurationMs)
	return nil
}
