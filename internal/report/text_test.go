package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextWriter_AllPassed(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, allPassedRun()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "2 passed, 0 failed, 0 rewritten in 12ms") {
		t.Errorf("output missing summary line:\n%s", out)
	}
	if strings.Contains(out, "FAIL") {
		t.Errorf("output should not mark failures:\n%s", out)
	}
}

func TestTextWriter_WithFailure(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, sampleRun()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Backups: /tmp/presubmit/alice/3",
		"app.py  (rewritten)",
		"FAIL  pkg/util.py",
		"lint failed",
		"E501 line too long",
		"1 passed, 1 failed, 1 rewritten in 240ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextWriter_Diffstat(t *testing.T) {
	run := &Run{
		Files: []FileResult{
			{
				Path:     "app.py",
				Stages:   []StageResult{{Stage: StageFormat}},
				Diffstat: "+3 -1",
				Failure:  "formatter made changes",
			},
		},
		ExitCode: 1,
	}

	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, run); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !strings.Contains(buf.String(), "+3 -1") {
		t.Errorf("output missing diffstat:\n%s", buf.String())
	}
}
