// Command ecoshopper is the EcoShopper CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rshade/ecoshopper/internal/cli"
	"github.com/rshade/ecoshopper/pkg/version"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitNoTTY = 2
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(context.Background())
}

// exitCode maps an execution error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, cli.ErrNotTerminal):
		return exitNoTTY
	default:
		return exitError
	}
}
