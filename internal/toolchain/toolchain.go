package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/presubmit-dev/presubmit/internal/config"
)

// Output captures the result of one tool invocation. Command holds the
// invocation without its trailing per-file argument, Data the merged stdout
// and stderr.
type Output struct {
	Code    int
	Command []string
	Data    string
}

// Pipeline runs the configured Python tools against in-memory source.
type Pipeline struct {
	cfg config.Config
	log *zap.Logger
}

// New builds a Pipeline for the given configuration.
func New(cfg config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Format rewrites src with isort followed by black and returns the result.
// Runs of blank lines are collapsed before the formatters see the source.
// When either formatter exits nonzero its Output is returned unchanged, with
// Data holding the tool's report instead of formatted source.
func (p *Pipeline) Format(ctx context.Context, src string) (Output, error) {
	src = collapseBlankLines(src)
	sorted, err := p.invoke(ctx, p.isortArgv(), src)
	if err != nil || sorted.Code != 0 {
		return sorted, err
	}
	return p.invoke(ctx, p.blackArgv(), sorted.Data)
}

// Lint runs flake8 and then pylint over src. path names the file being
// linted so pylint reports findings against it. The first failing tool's
// Output is returned; when both pass, Data carries src through unchanged.
func (p *Pipeline) Lint(ctx context.Context, path, src string) (Output, error) {
	out, err := p.invoke(ctx, p.flake8Argv(), src)
	if err != nil || out.Code != 0 {
		return out, err
	}
	out, err = p.invoke(ctx, p.pylintArgv(path), src, p.pylintEnv()...)
	if err != nil || out.Code != 0 {
		return out, err
	}
	return Output{Data: src}, nil
}

// Verify type-checks src with mypy. mypy does not read from stdin, so the
// source is handed over on the command line.
func (p *Pipeline) Verify(ctx context.Context, src string) (Output, error) {
	out, err := p.invoke(ctx, p.mypyArgv(src), "")
	if err != nil || out.Code != 0 {
		return out, err
	}
	return Output{Data: src}, nil
}

// invoke runs argv with src on stdin and captures the merged output. A
// nonzero exit from the tool is reported through Output.Code, not as an
// error; errors mean the tool could not be run at all.
func (p *Pipeline) invoke(ctx context.Context, argv []string, src string, extraEnv ...string) (Output, error) {
	p.log.Debug("running tool", zap.Strings("command", argv[:len(argv)-1]))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(src)
	if len(extraEnv) > 0 {
		env := os.Environ()
		env = append(env, extraEnv...)
		cmd.Env = env
	}

	data, err := cmd.CombinedOutput()
	out := Output{Command: argv[:len(argv)-1], Data: string(data)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.Code = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("running %s: %w", strings.Join(out.Command, " "), err)
	}
	return out, nil
}

func (p *Pipeline) isortArgv() []string {
	return []string{p.cfg.Python, "-m", "isort", "-sp", p.cfg.Tools.IsortConfig, "-"}
}

func (p *Pipeline) blackArgv() []string {
	return []string{p.cfg.Python, "-m", "black", "--config", p.cfg.Tools.BlackConfig, "-"}
}

func (p *Pipeline) flake8Argv() []string {
	return []string{p.cfg.Python, "-m", "flake8", "--config", p.cfg.Tools.Flake8Config, "-"}
}

func (p *Pipeline) pylintArgv(path string) []string {
	return []string{p.cfg.Python, "-m", "pylint", "--rcfile", p.cfg.Tools.PylintConfig, "--from-stdin", path}
}

func (p *Pipeline) mypyArgv(src string) []string {
	return []string{p.cfg.Python, "-m", "mypy", "--command", src}
}

// pylintEnv builds the PYTHONPATH entry for pylint so imports resolve from
// the configured root rather than the working directory.
func (p *Pipeline) pylintEnv() []string {
	root := p.cfg.Tools.PylintImportRoot
	if root == "" {
		return nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return []string{"PYTHONPATH=" + abs}
}

// collapseBlankLines reduces every run of consecutive blank lines to a
// single blank line. Lines containing only whitespace count as blank.
func collapseBlankLines(src string) string {
	lines := strings.Split(src, "\n")
	kept := make([]string, 0, len(lines))
	kept = append(kept, lines[0])
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" && strings.TrimSpace(kept[len(kept)-1]) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
