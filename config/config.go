// Package config defines the runtime configuration shared by the
// server and client binaries and provides helpers for parsing it.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"gosock/internal/cipherbox"
	sockerr "gosock/internal/errors"
	"gosock/util"
)

// Config holds every tuneable for one gosock process.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host string // client: server to dial
	Port int    // server: listen port; client: server port

	// ── Encryption ───────────────────────────────────────────────────
	Key []byte
	IV  []byte

	// ── Server ───────────────────────────────────────────────────────
	DataFile      string
	Interval      time.Duration
	IdleTimeout   time.Duration
	WriteTimeout  time.Duration
	AcceptTimeout time.Duration // 0 disables

	// ── Client ───────────────────────────────────────────────────────
	DrainTimeout    time.Duration
	DialTimeout     time.Duration
	ConnectAttempts int
	RetryDelay      time.Duration

	// ── SSH tunnel (client only) ─────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from SOCKET_TUNNEL
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// Default returns a Config populated from defaults.go and the fallback
// key material.
func Default() *Config {
	return &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		Key:             append([]byte(nil), cipherbox.DefaultKey...),
		IV:              append([]byte(nil), cipherbox.DefaultIV...),
		DataFile:        DefaultDataFile,
		Interval:        DefaultInterval,
		IdleTimeout:     DefaultIdleTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		DrainTimeout:    DefaultDrainTimeout,
		DialTimeout:     DefaultDialTimeout,
		ConnectAttempts: DefaultConnectAttempts,
		RetryDelay:      DefaultRetryDelay,
		Verbose:         DefaultVerbose,
	}
}

// Box builds the cipher box for the configured key and IV.
func (c *Config) Box() (*cipherbox.Box, error) {
	return cipherbox.New(c.Key, c.IV)
}

// Address returns host:port for the client dial.
func (c *Config) Address() string {
	return util.FormatAddr(c.Host, c.Port)
}

// ListenAddress returns the wildcard listen address for the server.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ── Port parser ──────────────────────────────────────────────────────

// ParsePort interprets a TCP_SERVER_PORT value.  An empty value yields
// DefaultPort.  Anything that is not an integer in [MinPort, MaxPort]
// also yields DefaultPort, with ok=false so the caller can warn.
func ParsePort(s string) (port int, ok bool) {
	if s == "" {
		return DefaultPort, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < MinPort || n > MaxPort {
		return DefaultPort, false
	}
	return n, true
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q, expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
// Problems are reported as *errors.ConfigError naming the environment
// variable to fix.
func (c *Config) Validate() error {
	switch {
	case len(c.Key) != cipherbox.KeySize:
		return &sockerr.ConfigError{
			Field:   "SOCKET_AES_KEY",
			Value:   fmt.Sprintf("%d bytes", len(c.Key)),
			Message: fmt.Sprintf("key must be %d bytes", cipherbox.KeySize),
			Hint:    "generate one with: head -c 32 /dev/urandom | base64",
		}
	case len(c.IV) != cipherbox.IVSize:
		return &sockerr.ConfigError{
			Field:   "SOCKET_AES_IV",
			Value:   fmt.Sprintf("%d bytes", len(c.IV)),
			Message: fmt.Sprintf("iv must be %d bytes", cipherbox.IVSize),
			Hint:    "generate one with: head -c 16 /dev/urandom | base64",
		}
	case c.Port < MinPort || c.Port > MaxPort:
		return &sockerr.ConfigError{
			Field:   "TCP_SERVER_PORT",
			Value:   c.Port,
			Message: fmt.Sprintf("port must be in %d-%d", MinPort, MaxPort),
		}
	case c.Host == "":
		return &sockerr.ConfigError{Field: "SOCKET_HOST", Message: "host is required"}
	case c.DataFile == "":
		return &sockerr.ConfigError{Field: "SOCKET_DATA_FILE", Message: "data file path is required"}
	case c.Interval <= 0:
		return &sockerr.ConfigError{Field: "interval", Value: c.Interval, Message: "must be positive"}
	case c.DrainTimeout <= c.Interval:
		return &sockerr.ConfigError{
			Field:   "drain timeout",
			Value:   c.DrainTimeout,
			Message: "must exceed the timestamp interval",
			Hint:    "otherwise the client stops reading in the middle of a burst",
		}
	case c.ConnectAttempts < 1:
		return &sockerr.ConfigError{Field: "connect attempts", Value: c.ConnectAttempts, Message: "must be at least 1"}
	case c.IdleTimeout < 0 || c.WriteTimeout < 0 || c.AcceptTimeout < 0 || c.RetryDelay < 0:
		return &sockerr.ConfigError{Field: "timeouts", Message: "must not be negative"}
	case c.TunnelEnabled && c.TunnelHost == "":
		return &sockerr.ConfigError{
			Field:   "SOCKET_TUNNEL",
			Value:   c.TunnelSpec,
			Message: "tunnel host is required",
			Hint:    "use SOCKET_TUNNEL=user@gateway[:port]",
		}
	}
	return nil
}
