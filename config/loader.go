package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (only -v, handled by internal/cli)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sockerr "gosock/internal/errors"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// TCP_SERVER_PORT keeps its historical name; everything else uses the
// SOCKET_ prefix.  Boolean values accept "1", "true", "yes"
// (case-insensitive).  Durations are whole seconds.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.
//
// An unusable TCP_SERVER_PORT is not fatal: the default port is used and
// a warning is returned for the caller to log.  Key material that is not
// valid base64 is fatal.
func LoadFromEnv(cfg *Config) (warnings []string, err error) {
	if v := os.Getenv("TCP_SERVER_PORT"); v != "" {
		port, ok := ParsePort(v)
		if !ok {
			warnings = append(warnings, fmt.Sprintf(
				"TCP_SERVER_PORT=%q is not a port in %d-%d, using %d", v, MinPort, MaxPort, port))
		}
		cfg.Port = port
	}
	if v := os.Getenv("SOCKET_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("SOCKET_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}

	// Encryption
	if cfg.Key, err = envBase64("SOCKET_AES_KEY", cfg.Key); err != nil {
		return warnings, err
	}
	if cfg.IV, err = envBase64("SOCKET_AES_IV", cfg.IV); err != nil {
		return warnings, err
	}

	// Timeouts
	if v := envInt("SOCKET_IDLE_TIMEOUT"); v > 0 {
		cfg.IdleTimeout = secondsDuration(v)
	}
	if v := envInt("SOCKET_ACCEPT_TIMEOUT"); v > 0 {
		cfg.AcceptTimeout = secondsDuration(v)
	}

	// SSH tunnel
	if v := os.Getenv("SOCKET_TUNNEL"); v != "" {
		user, host, port, perr := ParseTunnelSpec(v)
		if perr != nil {
			return warnings, &sockerr.ConfigError{
				Field:   "SOCKET_TUNNEL",
				Value:   v,
				Message: perr.Error(),
				Hint:    "use SOCKET_TUNNEL=user@gateway[:port]",
			}
		}
		if user == "" {
			user = os.Getenv("USER")
		}
		cfg.TunnelSpec = v
		cfg.TunnelEnabled = true
		cfg.TunnelUser, cfg.TunnelHost, cfg.TunnelPort = user, host, port
	}
	if v := os.Getenv("SOCKET_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("SOCKET_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("SOCKET_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("SOCKET_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("SOCKET_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := os.Getenv("SOCKET_VERBOSE"); v != "" {
		if n, aerr := strconv.Atoi(v); aerr == nil && n >= 0 {
			cfg.Verbose = n
		}
	}
	return warnings, nil
}

// ── helpers ──────────────────────────────────────────────────────────

func envBase64(key string, fallback []byte) ([]byte, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, &sockerr.ConfigError{
			Field:   key,
			Message: "not valid base64: " + err.Error(),
		}
	}
	return b, nil
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
