package core

import (
	"gosock/config"
	"gosock/internal/capability"
	"gosock/internal/lookup"
	"gosock/internal/metrics"
	"gosock/internal/request"
	"gosock/internal/retry"
	"gosock/internal/transport"
	"gosock/tunnel"
	"gosock/util"
)

// BuildServer assembles the server's ListenMode.  table may be nil, in
// which case every request is answered with EMPTY.
func BuildServer(cfg *config.Config, table *lookup.Table, m *metrics.Collector, logger *util.Logger) (*ListenMode, error) {
	box, err := cfg.Box()
	if err != nil {
		return nil, err
	}
	return &ListenMode{
		Address: cfg.ListenAddress(),
		Capability: &capability.TimeResponder{
			Interpreter: request.NewInterpreter(table),
			Interval:    cfg.Interval,
			Metrics:     m,
		},
		Box:           box,
		Logger:        logger,
		Metrics:       m,
		IdleTimeout:   cfg.IdleTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		AcceptTimeout: cfg.AcceptTimeout,
	}, nil
}

// BuildClient assembles the client's ConnectMode.  interactive selects
// whether the console prompt is printed.
func BuildClient(cfg *config.Config, interactive bool, logger *util.Logger) (*ConnectMode, error) {
	box, err := cfg.Box()
	if err != nil {
		return nil, err
	}
	return &ConnectMode{
		Dialer: buildDialer(cfg, logger),
		Capability: &capability.Prompt{
			Interactive:  interactive,
			DrainTimeout: cfg.DrainTimeout,
		},
		Address:      cfg.Address(),
		Box:          box,
		Backoff:      retry.Fixed(cfg.RetryDelay, cfg.ConnectAttempts),
		WriteTimeout: cfg.WriteTimeout,
		Logger:       logger,
	}, nil
}

// buildDialer creates the right transport.Dialer for the given config.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   cfg.DialTimeout,
		}, logger)
	}
	return &transport.TCPDialer{Timeout: cfg.DialTimeout}
}
