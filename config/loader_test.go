package config

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	sockerr "gosock/internal/errors"
)

func load(t *testing.T) (*Config, []string) {
	t.Helper()
	cfg := Default()
	warnings, err := LoadFromEnv(cfg)
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	return cfg, warnings
}

func TestLoadFromEnv_Unset(t *testing.T) {
	cfg, warnings := load(t)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if cfg.Port != DefaultPort || cfg.Host != DefaultHost || cfg.DataFile != DefaultDataFile {
		t.Errorf("defaults changed: %+v", cfg)
	}
}

func TestLoadFromEnv_Port(t *testing.T) {
	t.Setenv("TCP_SERVER_PORT", "8080")
	cfg, warnings := load(t)
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestLoadFromEnv_BadPortFallsBack(t *testing.T) {
	for _, v := range []string{"80", "70000", "http"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("TCP_SERVER_PORT", v)
			cfg, warnings := load(t)
			if cfg.Port != DefaultPort {
				t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
			}
			if len(warnings) != 1 || !strings.Contains(warnings[0], "TCP_SERVER_PORT") {
				t.Errorf("warnings = %v", warnings)
			}
		})
	}
}

func TestLoadFromEnv_Strings(t *testing.T) {
	t.Setenv("SOCKET_HOST", "10.0.0.7")
	t.Setenv("SOCKET_DATA_FILE", "/etc/gosock/table.json")
	t.Setenv("SOCKET_KNOWN_HOSTS", "/tmp/kh")
	t.Setenv("SOCKET_SSH_KEY", "/home/user/.ssh/id_ed25519")

	cfg, _ := load(t)
	if cfg.Host != "10.0.0.7" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.DataFile != "/etc/gosock/table.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.KnownHostsPath != "/tmp/kh" {
		t.Errorf("KnownHostsPath = %q", cfg.KnownHostsPath)
	}
	if cfg.SSHKeyPath != "/home/user/.ssh/id_ed25519" {
		t.Errorf("SSHKeyPath = %q", cfg.SSHKeyPath)
	}
}

func TestLoadFromEnv_KeyMaterial(t *testing.T) {
	key := []byte("fedcba9876543210fedcba9876543210")
	iv := []byte("0000111122223333")
	t.Setenv("SOCKET_AES_KEY", base64.StdEncoding.EncodeToString(key))
	t.Setenv("SOCKET_AES_IV", base64.StdEncoding.EncodeToString(iv))

	cfg, _ := load(t)
	if string(cfg.Key) != string(key) || string(cfg.IV) != string(iv) {
		t.Errorf("key/iv not loaded: %q %q", cfg.Key, cfg.IV)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFromEnv_BadBase64(t *testing.T) {
	t.Setenv("SOCKET_AES_KEY", "***not base64***")
	_, err := LoadFromEnv(Default())

	var ce *sockerr.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if ce.Field != "SOCKET_AES_KEY" {
		t.Errorf("field = %q", ce.Field)
	}
}

func TestLoadFromEnv_WrongKeySizeFailsValidation(t *testing.T) {
	t.Setenv("SOCKET_AES_KEY", base64.StdEncoding.EncodeToString([]byte("too short")))
	cfg, _ := load(t)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for 9-byte key")
	}
}

func TestLoadFromEnv_Timeouts(t *testing.T) {
	t.Setenv("SOCKET_IDLE_TIMEOUT", "30")
	t.Setenv("SOCKET_ACCEPT_TIMEOUT", "5")
	cfg, _ := load(t)
	if cfg.IdleTimeout != 30*time.Second {
		t.Errorf("IdleTimeout = %v, want 30s", cfg.IdleTimeout)
	}
	if cfg.AcceptTimeout != 5*time.Second {
		t.Errorf("AcceptTimeout = %v, want 5s", cfg.AcceptTimeout)
	}
}

func TestLoadFromEnv_Booleans(t *testing.T) {
	tests := []struct {
		key    string
		values []string
		get    func(*Config) bool
	}{
		{"SOCKET_SSH_PASSWORD", []string{"1", "true", "yes", "TRUE", "Yes"}, func(c *Config) bool { return c.SSHPassword }},
		{"SOCKET_SSH_AGENT", []string{"1", "true"}, func(c *Config) bool { return c.UseSSHAgent }},
		{"SOCKET_STRICT_HOSTKEY", []string{"yes"}, func(c *Config) bool { return c.StrictHostKey }},
	}

	for _, tt := range tests {
		for _, v := range tt.values {
			t.Run(tt.key+"="+v, func(t *testing.T) {
				t.Setenv(tt.key, v)
				cfg, _ := load(t)
				if !tt.get(cfg) {
					t.Errorf("%s=%s not applied", tt.key, v)
				}
			})
		}
		t.Run(tt.key+"=no", func(t *testing.T) {
			t.Setenv(tt.key, "no")
			cfg, _ := load(t)
			if tt.get(cfg) {
				t.Errorf("%s=no should leave the flag off", tt.key)
			}
		})
	}
}

func TestLoadFromEnv_Tunnel(t *testing.T) {
	t.Setenv("SOCKET_TUNNEL", "admin@bastion:2222")
	cfg, _ := load(t)

	if !cfg.TunnelEnabled {
		t.Fatal("tunnel should be enabled")
	}
	if cfg.TunnelUser != "admin" || cfg.TunnelHost != "bastion" || cfg.TunnelPort != 2222 {
		t.Errorf("tunnel = %s@%s:%d", cfg.TunnelUser, cfg.TunnelHost, cfg.TunnelPort)
	}
}

func TestLoadFromEnv_TunnelDefaultUser(t *testing.T) {
	t.Setenv("USER", "alice")
	t.Setenv("SOCKET_TUNNEL", "bastion")
	cfg, _ := load(t)
	if cfg.TunnelUser != "alice" || cfg.TunnelPort != DefaultSSHPort {
		t.Errorf("tunnel = %s@%s:%d", cfg.TunnelUser, cfg.TunnelHost, cfg.TunnelPort)
	}
}

func TestLoadFromEnv_BadTunnel(t *testing.T) {
	t.Setenv("SOCKET_TUNNEL", "user@host:notaport")
	_, err := LoadFromEnv(Default())
	var ce *sockerr.ConfigError
	if !errors.As(err, &ce) || ce.Field != "SOCKET_TUNNEL" {
		t.Fatalf("expected SOCKET_TUNNEL ConfigError, got %v", err)
	}
}

func TestLoadFromEnv_Verbose(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"0", 0},
		{"3", 3},
		{"-1", DefaultVerbose},
		{"loud", DefaultVerbose},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("SOCKET_VERBOSE", tt.value)
			cfg, _ := load(t)
			if cfg.Verbose != tt.want {
				t.Errorf("Verbose = %d, want %d", cfg.Verbose, tt.want)
			}
		})
	}
}
