package engine

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sourcegraph/go-diff/diff"
	"go.uber.org/zap"

	"github.com/presubmit-dev/presubmit/internal/backup"
	"github.com/presubmit-dev/presubmit/internal/gitio"
	"github.com/presubmit-dev/presubmit/internal/report"
	"github.com/presubmit-dev/presubmit/internal/toolchain"
)

// Run executes the requested stages over files in order. The first failure
// stops the batch; files after it are left untouched. The returned record
// covers everything processed up to the stopping point and carries the
// process exit code. A non-nil error means an internal failure the caller
// should report; tool failures are already printed and are not errors.
func (e *Engine) Run(ctx context.Context, files []string, opts Options) (*report.Run, error) {
	started := time.Now()
	run := &report.Run{Started: started, Files: []report.FileResult{}}
	defer func() { run.DurationMs = time.Since(started).Milliseconds() }()

	repoRoot, err := gitio.RepoRoot()
	if err != nil {
		run.ExitCode = 1
		return run, err
	}

	revDir, err := backup.Dir(e.Config.BackupRoot)
	if err != nil {
		run.ExitCode = 1
		return run, err
	}
	run.RevisionDir = revDir
	fmt.Fprintf(e.Out, "Temporary directory in use: %s\n", revDir)

	for _, path := range files {
		fmt.Fprintf(e.Out, "Checking %s...\n", path)

		fr, code, err := e.processFile(ctx, revDir, repoRoot, path, opts)
		run.Files = append(run.Files, fr)
		if err != nil {
			run.ExitCode = 1
			return run, err
		}
		if code != 0 {
			run.ExitCode = code
			return run, nil
		}
		fmt.Fprintf(e.Out, "Success: %s\n", path)
	}

	fmt.Fprintln(e.Out, "Success!")
	return run, nil
}

// processFile runs the requested stages against one file. A nonzero code
// aborts the batch with that exit code; err reports internal failures.
func (e *Engine) processFile(ctx context.Context, revDir, repoRoot, path string, opts Options) (report.FileResult, int, error) {
	fr := report.FileResult{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		return fr, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	data := string(src)

	if opts.Format {
		out, err := e.Tools.Format(ctx, data)
		if err != nil {
			return fr, 0, err
		}
		if out.Code != 0 {
			fr.Stages = append(fr.Stages, stageResult(report.StageFormat, out))
			fr.Failure = "format failed"
			fmt.Fprint(e.ErrOut, out.Data)
			return fr, out.Code, nil
		}
		fr.Stages = append(fr.Stages, report.StageResult{Stage: report.StageFormat})

		if opts.Check {
			if contentHash(data) != contentHash(out.Data) {
				fr.Diffstat = e.diffstat(path, data, out.Data)
				fr.Failure = "formatter made changes"
				fmt.Fprintf(e.ErrOut, "Failed check on %s. Formatter made changes.\n", path)
				return fr, 1, nil
			}
		} else if out.Data != data {
			if _, err := backup.Stash(revDir, repoRoot, path); err != nil {
				return fr, 0, err
			}
			if err := overwrite(path, out.Data); err != nil {
				return fr, 0, err
			}
			fr.Changed = true
			data = out.Data
		}
	}

	if opts.Lint {
		out, err := e.Tools.Lint(ctx, path, data)
		if err != nil {
			return fr, 0, err
		}
		if out.Code != 0 {
			fr.Stages = append(fr.Stages, stageResult(report.StageLint, out))
			fr.Failure = "lint failed"
			fmt.Fprint(e.ErrOut, out.Data)
			fmt.Fprintf(e.Out, "Failed to lint %s.\n", path)
			return fr, out.Code, nil
		}
		fr.Stages = append(fr.Stages, report.StageResult{Stage: report.StageLint})
	}

	if opts.Verify {
		out, err := e.Tools.Verify(ctx, data)
		if err != nil {
			return fr, 0, err
		}
		if out.Code != 0 {
			fr.Stages = append(fr.Stages, stageResult(report.StageVerify, out))
			fr.Failure = "verify failed"
			fmt.Fprint(e.ErrOut, out.Data)
			fmt.Fprintf(e.Out, "Failed to verify %s.\n", path)
			return fr, out.Code, nil
		}
		fr.Stages = append(fr.Stages, report.StageResult{Stage: report.StageVerify})
	}

	return fr, 0, nil
}

// FormatOne runs the format stage against a single file and rewrites it in
// place when the output differs, stashing the original first. It reports
// whether the file changed. A formatter failure comes back as a *ToolError
// carrying the tool's report.
func (e *Engine) FormatOne(ctx context.Context, revDir, repoRoot, path string) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	data := string(src)

	out, err := e.Tools.Format(ctx, data)
	if err != nil {
		return false, err
	}
	if out.Code != 0 {
		return false, &ToolError{Code: out.Code, Output: out.Data}
	}
	if out.Data == data {
		return false, nil
	}

	if _, err := backup.Stash(revDir, repoRoot, path); err != nil {
		return false, err
	}
	if err := overwrite(path, out.Data); err != nil {
		return false, err
	}
	return true, nil
}

func stageResult(stage string, out toolchain.Output) report.StageResult {
	return report.StageResult{Stage: stage, Code: out.Code, Command: out.Command, Output: out.Data}
}

// contentHash returns the SHA-256 of data as a hex string.
func contentHash(data string) string {
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", h)
}

// overwrite replaces path's content, keeping its permission bits.
func overwrite(path, data string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(data), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// diffstat renders the pending change as "+adds -dels". Failures degrade to
// an empty stat; the check verdict does not depend on it.
func (e *Engine) diffstat(path, oldData, newData string) string {
	dir, err := os.MkdirTemp("", "presubmit-diff")
	if err != nil {
		e.Log.Debug("diffstat temp dir", zap.Error(err))
		return ""
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(path)
	oldPath := filepath.Join(dir, "a-"+name)
	newPath := filepath.Join(dir, "b-"+name)
	if err := os.WriteFile(oldPath, []byte(oldData), 0o600); err != nil {
		return ""
	}
	if err := os.WriteFile(newPath, []byte(newData), 0o600); err != nil {
		return ""
	}

	patch, err := gitio.DiffNoIndex(oldPath, newPath)
	if err != nil {
		e.Log.Debug("diff --no-index failed", zap.Error(err))
		return ""
	}

	adds, dels, err := countChanges(patch)
	if err != nil {
		e.Log.Debug("parsing diff failed", zap.Error(err))
		return ""
	}
	return fmt.Sprintf("+%d -%d", adds, dels)
}

// countChanges tallies added and deleted lines across all hunks of a
// unified diff.
func countChanges(patch string) (adds, dels int, err error) {
	fds, err := diff.NewMultiFileDiffReader(strings.NewReader(patch)).ReadAllFiles()
	if err != nil {
		return 0, 0, fmt.Errorf("parsing diff: %w", err)
	}
	for _, fd := range fds {
		for _, hunk := range fd.Hunks {
			for _, line := range strings.Split(string(hunk.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					adds++
				case strings.HasPrefix(line, "-"):
					dels++
				}
			}
		}
	}
	return adds, dels, nil
}
