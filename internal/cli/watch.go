package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/presubmit-dev/presubmit/internal/config"
	"github.com/presubmit-dev/presubmit/internal/engine"
	"github.com/presubmit-dev/presubmit/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reformat files in scope as they change",
	Long: "Watch observes every file in scope and reruns the formatter on a file " +
		"once writes to it settle. Lint and type-check stages do not run; a failed " +
		"format is logged and the watch continues.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, nil)
		if err != nil {
			return err
		}

		eng := engine.New(cfg, logger)
		w, err := watch.New(eng, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle graceful shutdown
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		if err := w.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		<-ctx.Done()
		w.Stop()
		return nil
	},
}
