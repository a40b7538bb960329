package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownWriter_AllPassed(t *testing.T) {
	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, allPassedRun()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "| 2 | 2 | 0 | 0 |") {
		t.Errorf("output missing summary row:\n%s", out)
	}
	if !strings.Contains(out, ":white_check_mark:") {
		t.Errorf("output missing pass marker:\n%s", out)
	}
	if strings.Contains(out, "<details>") {
		t.Errorf("output should have no failure sections:\n%s", out)
	}
}

func TestMarkdownWriter_WithFailure(t *testing.T) {
	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, sampleRun()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"## Presubmit",
		"<details>",
		"<code>pkg/util.py</code>",
		"```text\nstdin:3:80: E501 line too long\n```",
		"</details>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
