// Package cli wires the gosock-server and gosock-client commands:
// environment configuration, logging, and the mode builders.
package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"gosock/config"
	"gosock/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X gosock/internal/cli.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// commonFlags holds the flags shared by both commands.
type commonFlags struct {
	verbose int
}

func (f *commonFlags) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("common", flag.ContinueOnError)
	fs.CountVarP(&f.verbose, "verbose", "v", "Increase verbosity (repeatable)")
	return fs
}

func newCommand(use, short string, f *commonFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          short + "\n\nAll settings are read from the environment; see the README.",
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().AddFlagSet(f.flagSet())
	return cmd
}

// setup loads the configuration from the environment, applies the
// command-line overrides and builds the logger.  Environment warnings
// are logged once the logger exists.
func setup(cmd *cobra.Command, f *commonFlags) (*config.Config, *util.Logger, error) {
	cfg := config.Default()
	warnings, err := config.LoadFromEnv(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load environment failed")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	logger := newLogger(cfg.Verbose, cmd.ErrOrStderr())
	for _, w := range warnings {
		logger.Warn("%s", w)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "validate config failed")
	}
	return cfg, logger, nil
}

func newLogger(verbosity int, out io.Writer) *util.Logger {
	logger := util.NewLogger(verbosity)
	logger.SetOutput(out)
	return logger
}
