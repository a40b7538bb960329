package engine

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/presubmit-dev/presubmit/internal/config"
	"github.com/presubmit-dev/presubmit/internal/toolchain"
)

// Selection describes which files a run covers. At most one of File or
// AllFiles may be set; with neither, files changed since the merge base
// with the configured ref are selected.
type Selection struct {
	File     string
	AllFiles bool
}

// Options selects the stages a run executes. Check turns the format stage
// into a dry run that fails when formatting would change a file.
type Options struct {
	Format bool
	Lint   bool
	Verify bool
	Check  bool
}

// Engine drives the presubmit pipeline. Out receives per-file progress
// lines, ErrOut the captured output of failing tools.
type Engine struct {
	Config config.Config
	Tools  *toolchain.Pipeline
	Out    io.Writer
	ErrOut io.Writer
	Log    *zap.Logger
}

// New builds an Engine writing progress to stdout and tool reports to
// stderr.
func New(cfg config.Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		Config: cfg,
		Tools:  toolchain.New(cfg, log),
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		Log:    log,
	}
}
