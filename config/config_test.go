package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	sockerr "gosock/internal/errors"
)

// ── ParsePort ────────────────────────────────────────────────────────

func TestParsePort(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"", DefaultPort, true},
		{"1024", 1024, true},
		{"8080", 8080, true},
		{"65535", 65535, true},
		{"1023", DefaultPort, false},
		{"80", DefaultPort, false},
		{"65536", DefaultPort, false},
		{"-1", DefaultPort, false},
		{"abc", DefaultPort, false},
		{"80.5", DefaultPort, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePort(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePort(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// ── ParseTunnelSpec ──────────────────────────────────────────────────

func TestParseTunnelSpec(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "admin@bastion.example.com:2222", "admin", "bastion.example.com", 2222, false},
		{"no port", "root@gateway", "root", "gateway", 22, false},
		{"no user", "jump-host:2200", "", "jump-host", 2200, false},
		{"host only", "gateway.local", "", "gateway.local", 22, false},
		{"bad port", "user@host:999999", "", "", 0, true},
		{"empty", "", "", "", 0, true},
		{"colon only", ":", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseTunnelSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("got (%q, %q, %d), want (%q, %q, %d)",
					user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}

// ── Default / Validate ───────────────────────────────────────────────

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Address() != "localhost:5000" {
		t.Errorf("Address = %q", cfg.Address())
	}
	if cfg.ListenAddress() != ":5000" {
		t.Errorf("ListenAddress = %q", cfg.ListenAddress())
	}
	if _, err := cfg.Box(); err != nil {
		t.Errorf("Box: %v", err)
	}
}

func TestDefault_KeyIsCopied(t *testing.T) {
	a, b := Default(), Default()
	a.Key[0] = 'X'
	if b.Key[0] == 'X' {
		t.Error("Default configs share key storage")
	}
}

func TestValidate_ErrorMessages(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
		wantSub   string
	}{
		{"short key", func(c *Config) { c.Key = c.Key[:16] }, "SOCKET_AES_KEY", "hint:"},
		{"long iv", func(c *Config) { c.IV = append(c.IV, 0) }, "SOCKET_AES_IV", "16 bytes"},
		{"low port", func(c *Config) { c.Port = 80 }, "TCP_SERVER_PORT", "1024-65535"},
		{"no host", func(c *Config) { c.Host = "" }, "SOCKET_HOST", "required"},
		{"no data file", func(c *Config) { c.DataFile = "" }, "SOCKET_DATA_FILE", "required"},
		{"zero interval", func(c *Config) { c.Interval = 0 }, "interval", "positive"},
		{"short drain", func(c *Config) { c.DrainTimeout = c.Interval }, "drain timeout", "hint:"},
		{"no attempts", func(c *Config) { c.ConnectAttempts = 0 }, "connect attempts", "at least 1"},
		{"negative timeout", func(c *Config) { c.IdleTimeout = -time.Second }, "timeouts", "negative"},
		{"tunnel no host", func(c *Config) { c.TunnelEnabled = true }, "SOCKET_TUNNEL", "hint:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			var ce *sockerr.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ce.Field, tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}
