package main

import (
	"os"

	"github.com/presubmit-dev/presubmit/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
