// Package errors provides the error taxonomy shared by both peers.
//
// Transport, protocol and crypto failures are session-fatal and carry
// enough structure for the acceptor to log them and drop the one
// connection they happened on.  A clean disconnect is reported as
// [ErrEndOfStream], which callers treat as a normal end of session.
package errors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrEndOfStream reports that the peer closed the stream before or
	// while sending a frame.
	ErrEndOfStream = errors.New("end of stream")

	// ErrNotConnected reports a dial through a tunnel that is down.
	ErrNotConnected = errors.New("not connected")
)

// ── Structured error types ───────────────────────────────────────────

// TransportError represents a failure in a socket operation.
type TransportError struct {
	Op        string // "dial", "listen", "accept", "write", "read"
	Addr      string // network address involved, empty when unknown
	Err       error  // underlying error
	Retryable bool   // whether the caller should retry
}

func (e *TransportError) Error() string {
	var s string
	if e.Addr != "" {
		s = fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	} else {
		s = fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError represents a malformed frame on the wire.
type ProtocolError struct {
	Reason string
	Length uint32 // declared frame length, 0 when not yet known
}

func (e *ProtocolError) Error() string {
	if e.Length > 0 {
		return fmt.Sprintf("protocol: %s (%d bytes)", e.Reason, e.Length)
	}
	return "protocol: " + e.Reason
}

// CryptoError represents a payload that could not be decrypted.
type CryptoError struct {
	Op  string // "decrypt", "unpad", "decode"
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("crypto %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// SSHError represents an SSH-specific failure with gateway context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // environment variable or flag name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := "config: " + e.Field
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Transport creates a TransportError, detecting retryability from the
// underlying error.
func Transport(op, addr string, err error) *TransportError {
	return &TransportError{
		Op:        op,
		Addr:      addr,
		Err:       err,
		Retryable: classifyRetryable(err),
	}
}

// Protocol creates a ProtocolError.
func Protocol(reason string, length uint32) *ProtocolError {
	return &ProtocolError{Reason: reason, Length: length}
}

// Crypto creates a CryptoError.
func Crypto(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return classifyRetryable(err)
}

// IsEndOfStream reports whether err is a clean disconnect.
func IsEndOfStream(err error) bool {
	return errors.Is(err, ErrEndOfStream)
}

// IsTimeout reports whether err is a deadline expiry on a connection.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsClosed returns true for errors that are expected once a connection
// or listener has been closed locally.
func IsClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}

// IsSessionFatal reports whether err should end the session it
// occurred on.  Clean disconnects are not fatal.
func IsSessionFatal(err error) bool {
	if err == nil || IsEndOfStream(err) {
		return false
	}
	var (
		te *TransportError
		pe *ProtocolError
		ce *CryptoError
	)
	return errors.As(err, &te) || errors.As(err, &pe) || errors.As(err, &ce)
}

// classifyRetryable inspects standard library error types.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return true
		}
		return opErr.Temporary() //nolint:staticcheck // Temporary is deprecated but still useful
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() //nolint:staticcheck
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
