package cli

import (
	"fmt"
	"os"

	"github.com/presubmit-dev/presubmit/internal/config"
	"github.com/presubmit-dev/presubmit/internal/engine"
	"github.com/presubmit-dev/presubmit/internal/report"
	"github.com/spf13/cobra"
)

// Pipeline flags
var (
	flagSince        string
	flagFile         string
	flagAllFiles     bool
	flagFormat       bool
	flagLint         bool
	flagVerify       bool
	flagCheck        bool
	flagReport       string
	flagReportFormat string
)

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSince, "since", "", "Revision to diff against when selecting files")
	cmd.Flags().StringVar(&flagFile, "file", "", "Run on a single file, bypassing scope lists")
	cmd.Flags().BoolVar(&flagAllFiles, "all-files", false, "Run on every tracked file in scope")
	cmd.Flags().BoolVar(&flagFormat, "format", false, "Run the format stage (isort, black)")
	cmd.Flags().BoolVar(&flagLint, "lint", false, "Run the lint stage (flake8, pylint)")
	cmd.Flags().BoolVar(&flagVerify, "verify", false, "Run the type-check stage (mypy)")
	cmd.Flags().BoolVar(&flagCheck, "check", false, "Report files needing reformat instead of rewriting them")
	cmd.Flags().StringVar(&flagReport, "report", "", "Write a run report to this path")
	cmd.Flags().StringVar(&flagReportFormat, "report-format", "json", "Report format (text, json, markdown, sarif)")
	cmd.MarkFlagsMutuallyExclusive("since", "file", "all-files")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagSince != "" {
		m["since"] = flagSince
	}
	return m
}

// pipelineOptions maps the stage flags to engine options. With no stage flag
// set every stage runs.
func pipelineOptions() engine.Options {
	opts := engine.Options{
		Format: flagFormat,
		Lint:   flagLint,
		Verify: flagVerify,
		Check:  flagCheck,
	}
	if !opts.Format && !opts.Lint && !opts.Verify {
		opts.Format = true
		opts.Lint = true
		opts.Verify = true
	}
	return opts
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig, buildOverrides())
	if err != nil {
		return err
	}

	eng := engine.New(cfg, logger)

	files, err := eng.Resolve(engine.Selection{File: flagFile, AllFiles: flagAllFiles})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitError
		return nil
	}

	run, err := eng.Run(cmd.Context(), files, pipelineOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	run.Version = version
	exitCode = run.ExitCode

	if flagReport != "" {
		if err := report.WriteRun(run, flagReportFormat, flagReport); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			if exitCode == ExitSuccess {
				exitCode = ExitError
			}
		}
	}

	return nil
}

func init() {
	addPipelineFlags(rootCmd)
}
