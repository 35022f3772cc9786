// Command snforge-run is a standalone driver for the Extended Runtime
// core: it loads a JSON scenario describing simulated contracts and a
// sequence of calls, runs them through the full Forge -> Cheatable ->
// Stock -> simvm stack, and prints each call's outcome. It exists to
// exercise the core end to end outside of a test binary, the way the
// teacher corpus's own cmd/ entry points drive a simulated chain from
// the command line rather than from a harness.
package main

import (
	"fmt"
	"os"

	"github.com/foundry-rs/snforge-runtime/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "snforge-run",
		Short: "Run simulated Starknet contract scenarios against the extended runtime core",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.SetLevel(zerolog.DebugLevel)
			} else {
				logging.SetLevel(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the snforge-run version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

// version is the build-time version string, overridable via
// `-ldflags "-X main.version=..."` the way the teacher corpus stamps its
// own binaries.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
