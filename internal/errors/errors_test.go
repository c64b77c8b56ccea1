package errors

import (
	"fmt"
	"io"
	"net"
	"os"
	"testing"
)

func TestTransportError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  TransportError
		want string
	}{
		{
			name: "retryable",
			err:  TransportError{Op: "dial", Addr: "localhost:5000", Err: io.EOF, Retryable: true},
			want: "dial localhost:5000: EOF (retryable)",
		},
		{
			name: "non-retryable",
			err:  TransportError{Op: "listen", Addr: ":5000", Err: fmt.Errorf("bind failed")},
			want: "listen :5000: bind failed",
		},
		{
			name: "no address",
			err:  TransportError{Op: "write", Err: io.ErrShortWrite},
			want: "write: short write",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	err := Transport("read", "x", io.ErrUnexpectedEOF)
	if !Is(err, io.ErrUnexpectedEOF) {
		t.Error("should unwrap to io.ErrUnexpectedEOF")
	}
}

func TestProtocolError_Format(t *testing.T) {
	if got := Protocol("invalid length", 1048577).Error(); got != "protocol: invalid length (1048577 bytes)" {
		t.Errorf("got %q", got)
	}
	if got := Protocol("truncated length prefix", 0).Error(); got != "protocol: truncated length prefix" {
		t.Errorf("got %q", got)
	}
}

func TestCryptoError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("bad padding")
	err := Crypto("unpad", inner)
	if got := err.Error(); got != "crypto unpad: bad padding" {
		t.Errorf("got %q", got)
	}
	if !Is(err, inner) {
		t.Error("should unwrap to inner error")
	}
}

func TestSSHError_Format(t *testing.T) {
	err := WrapSSH("handshake", "bastion.example.com", 22, fmt.Errorf("connection refused"))
	want := "ssh handshake bastion.example.com:22: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConfigError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with value and hint",
			err: ConfigError{
				Field:   "TCP_SERVER_PORT",
				Value:   80,
				Message: "out of range 1024-65535",
				Hint:    "use an unprivileged port",
			},
			want: "config: TCP_SERVER_PORT=80: out of range 1024-65535\n  hint: use an unprivileged port",
		},
		{
			name: "missing value no hint",
			err: ConfigError{
				Field:   "SOCKET_AES_KEY",
				Message: "must decode to 32 bytes",
			},
			want: "config: SOCKET_AES_KEY: must decode to 32 bytes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"retryable transport", &TransportError{Op: "dial", Err: io.EOF, Retryable: true}, true},
		{"non-retryable transport", &TransportError{Op: "dial", Err: io.EOF}, false},
		{"refused dial", &net.OpError{Op: "dial", Net: "tcp", Err: fmt.Errorf("connection refused")}, true},
		{"plain error", fmt.Errorf("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(Transport("read", "", os.ErrDeadlineExceeded)) {
		t.Error("deadline exceeded should be a timeout")
	}
	if IsTimeout(Transport("read", "", io.EOF)) {
		t.Error("EOF is not a timeout")
	}
	if IsTimeout(nil) {
		t.Error("nil is not a timeout")
	}
}

func TestIsClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"net closed", net.ErrClosed, true},
		{"closed pipe", io.ErrClosedPipe, true},
		{"wrapped op error", &net.OpError{Op: "read", Err: net.ErrClosed}, true},
		{"transport wrapping", Transport("read", "", net.ErrClosed), true},
		{"other", io.EOF, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClosed(tt.err); got != tt.want {
				t.Errorf("IsClosed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSessionFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"end of stream", ErrEndOfStream, false},
		{"wrapped end of stream", fmt.Errorf("receive: %w", ErrEndOfStream), false},
		{"transport", Transport("write", "", io.ErrShortWrite), true},
		{"protocol", Protocol("invalid length", 0), true},
		{"crypto", Crypto("unpad", New("bad padding")), true},
		{"plain", fmt.Errorf("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSessionFatal(tt.err); got != tt.want {
				t.Errorf("IsSessionFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentinels(t *testing.T) {
	if Is(ErrEndOfStream, ErrNotConnected) {
		t.Error("sentinels must be distinct")
	}
	if !IsEndOfStream(fmt.Errorf("x: %w", ErrEndOfStream)) {
		t.Error("wrapped end of stream not detected")
	}
}
