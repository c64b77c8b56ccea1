package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across environment loading, validation and the CLI.

const (
	// DefaultPort is used when TCP_SERVER_PORT is unset or invalid.
	DefaultPort = 5000

	// MinPort and MaxPort bound the accepted TCP_SERVER_PORT values.
	MinPort = 1024
	MaxPort = 65535

	// DefaultHost is the server the client connects to.
	DefaultHost = "localhost"

	// DefaultDataFile is the lookup table, relative to the working
	// directory.
	DefaultDataFile = "data.json"

	// DefaultInterval separates the timestamps of one burst.
	DefaultInterval = 1 * time.Second

	// DefaultDrainTimeout is how long the client waits for one more
	// response before prompting again.
	DefaultDrainTimeout = 1500 * time.Millisecond

	// DefaultIdleTimeout bounds a server read waiting for a request.
	DefaultIdleTimeout = 10 * time.Minute

	// DefaultWriteTimeout bounds a single frame write on either side.
	DefaultWriteTimeout = 10 * time.Minute

	// DefaultDialTimeout is the TCP/SSH connection timeout.
	DefaultDialTimeout = 30 * time.Second

	// DefaultConnectAttempts is how many times the client tries to
	// connect before giving up.
	DefaultConnectAttempts = 3

	// DefaultRetryDelay is the fixed pause between connection attempts.
	DefaultRetryDelay = 2 * time.Second

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultVerbose shows connects, disconnects and errors.
	DefaultVerbose = 1
)
