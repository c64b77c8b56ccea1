package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gosock/internal/core"
	"gosock/internal/lookup"
	"gosock/internal/metrics"
)

// NewServerCommand returns the gosock-server root command.
func NewServerCommand() *cobra.Command {
	f := &commonFlags{}
	cmd := newCommand("gosock-server", "Serve timestamp bursts over an encrypted TCP protocol.", f)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runServer(cmd, f)
	}
	return cmd
}

func runServer(cmd *cobra.Command, f *commonFlags) error {
	cfg, logger, err := setup(cmd, f)
	if err != nil {
		return err
	}

	table, err := lookup.Load(cfg.DataFile)
	if err != nil {
		return errors.Wrap(err, "load lookup table failed")
	}
	logger.Verbose("loaded %d sets from %s", table.Len(), cfg.DataFile)

	m := metrics.New()
	mode, err := core.BuildServer(cfg, table, m, logger)
	if err != nil {
		return errors.Wrap(err, "build server failed")
	}

	err = mode.Run(cmd.Context())
	logger.Info("metrics: %s", m.JSON())
	return errors.Wrap(err, "run server failed")
}
