// Command forecastviz renders forecast charts from the command line and
// serves them over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forecastviz/internal/cli"
	fverrors "github.com/matzehuels/forecastviz/pkg/errors"
)

// exitInterrupted is what shells report for a SIGINT-terminated process.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

func execute(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Raise the level before the root hook hands the logger to commands.
	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if attach == nil {
			return nil
		}
		return attach(cmd, args)
	}
	return root.ExecuteContext(ctx)
}

// exitCode prints err to w and maps it to a process exit status.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	}
	if code := fverrors.GetCode(err); code != "" {
		fmt.Fprintf(w, "%s: %s\n", code, fverrors.UserMessage(err))
	} else {
		fmt.Fprintln(w, err)
	}
	return 1
}
