package report

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Stage names recorded in run results.
const (
	StageFormat = "format"
	StageLint   = "lint"
	StageVerify = "verify"
)

// StageResult records one tool stage run against a file. Output holds the
// tool's report when the stage failed; successful stage output is the file
// content itself and is never stored.
type StageResult struct {
	Stage   string   `json:"stage"`
	Code    int      `json:"code"`
	Command []string `json:"command,omitempty"`
	Output  string   `json:"output,omitempty"`
}

// FileResult collects the stage outcomes for a single file.
type FileResult struct {
	Path     string        `json:"path"`
	Stages   []StageResult `json:"stages,omitempty"`
	Changed  bool          `json:"changed,omitempty"`
	Diffstat string        `json:"diffstat,omitempty"`
	Failure  string        `json:"failure,omitempty"`
}

// Failed reports whether the pipeline left this file in a failing state.
func (f FileResult) Failed() bool { return f.Failure != "" }

// Run is the record of one pipeline invocation.
type Run struct {
	Version     string       `json:"version,omitempty"`
	Started     time.Time    `json:"started"`
	RevisionDir string       `json:"revision_dir,omitempty"`
	Files       []FileResult `json:"files"`
	ExitCode    int          `json:"exit_code"`
	DurationMs  int64        `json:"duration_ms"`
}

// Writer writes a run record in a specific format.
type Writer interface {
	Write(w io.Writer, run *Run) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	case "sarif":
		return &SARIFWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteRun writes the run record to the specified output (file path or
// stdout).
func WriteRun(run *Run, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, run)
}

func counts(run *Run) (passed, failed, changed int) {
	for _, f := range run.Files {
		if f.Failed() {
			failed++
		} else {
			passed++
		}
		if f.Changed {
			changed++
		}
	}
	return passed, failed, changed
}

// failedStage names the stage responsible for a file's failure. Check-mode
// failures carry no nonzero stage exit, so they map to the format stage.
func failedStage(f FileResult) string {
	for _, s := range f.Stages {
		if s.Code != 0 {
			return s.Stage
		}
	}
	return StageFormat
}

// failureOutput returns the failing stage's report with trailing newlines
// trimmed, or "" when no stage recorded output.
func failureOutput(f FileResult) string {
	for _, s := range f.Stages {
		if s.Code != 0 && s.Output != "" {
			return trimTrailingNewlines(s.Output)
		}
	}
	return ""
}

func trimTrailingNewlines(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
