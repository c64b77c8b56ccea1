package cli

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gosock/internal/core"
)

// NewClientCommand returns the gosock-client root command.
func NewClientCommand() *cobra.Command {
	f := &commonFlags{}
	cmd := newCommand("gosock-client", "Send requests to a gosock server and print its responses.", f)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runClient(cmd, f)
	}
	return cmd
}

func runClient(cmd *cobra.Command, f *commonFlags) error {
	cfg, logger, err := setup(cmd, f)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	mode, err := core.BuildClient(cfg, isTerminal(in), logger)
	if err != nil {
		return errors.Wrap(err, "build client failed")
	}
	mode.Stdin = in
	mode.Stdout = cmd.OutOrStdout()

	return errors.Wrap(mode.Run(cmd.Context()), "run client failed")
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
