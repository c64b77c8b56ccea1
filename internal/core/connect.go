package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"gosock/internal/capability"
	"gosock/internal/cipherbox"
	sockerr "gosock/internal/errors"
	"gosock/internal/message"
	"gosock/internal/retry"
	"gosock/internal/session"
	"gosock/internal/transport"
	"gosock/util"
)

// ConnectMode dials the server and runs a capability on the resulting
// connection.  A connection that drops while the capability is running
// is re-established with a fresh attempt budget.
type ConnectMode struct {
	Dialer       transport.Dialer
	Capability   capability.Capability
	Address      string
	Box          *cipherbox.Box
	Backoff      *retry.Backoff
	WriteTimeout time.Duration
	Logger       *util.Logger

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	// Override in tests for deterministic I/O.
	Stdin  io.Reader
	Stdout io.Writer
}

func (m *ConnectMode) stdin() io.Reader {
	if m.Stdin != nil {
		return m.Stdin
	}
	return os.Stdin
}

func (m *ConnectMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run connects, hands the session to the capability and reconnects
// after transport failures.  It returns nil when the capability
// finishes or ctx is cancelled, and an error when every connection
// attempt failed or the session failed in a way a reconnect cannot fix.
func (m *ConnectMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()
	defer fmt.Fprintln(m.stdout(), "Connection closed.")

	for {
		conn, err := m.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(m.stdout(), "Max connection retries reached. Exiting.")
			return err
		}

		err = m.runSession(ctx, conn)
		switch {
		case err == nil || ctx.Err() != nil:
			return nil
		case !reconnectable(err):
			return err
		}
		m.Logger.Warn("connection lost: %v", err)
	}
}

// connect dials Address under the retry policy.  Only transport
// failures are retried.
func (m *ConnectMode) connect(ctx context.Context) (net.Conn, error) {
	b := *m.backoff()
	b.OnRetry = func(attempt int, err error, wait time.Duration) {
		m.Logger.Verbose("attempt %d failed: %v", attempt, err)
		fmt.Fprintf(m.stdout(), "Retrying connection... (Attempt %d/%d)\n", attempt+1, b.MaxAttempts)
	}

	var conn net.Conn
	err := b.Do(ctx, func(int) error {
		fmt.Fprintf(m.stdout(), "Connecting to %s...\n", m.Address)
		c, err := m.Dialer.Dial(ctx, "tcp", m.Address)
		if err != nil {
			fmt.Fprintf(m.stdout(), "Error: %v\n", err)
			var te *sockerr.TransportError
			if !errors.As(err, &te) {
				return retry.Permanent(err)
			}
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(m.stdout(), "Connected to server!")
	return conn, nil
}

func (m *ConnectMode) runSession(ctx context.Context, conn net.Conn) error {
	ch := message.New(conn, m.Box, message.WithWriteTimeout(m.WriteTimeout))
	sess := session.New(conn, ch, m.stdin(), m.stdout(), m.Logger)
	stop := sess.CloseOnDone(ctx)
	defer stop()
	defer sess.Close() //nolint:errcheck

	sess.Logger.Verbose("connected")
	err := m.Capability.Handle(ctx, sess)
	if err == nil {
		fmt.Fprintln(m.stdout(), "Disconnecting.")
	}
	return err
}

func (m *ConnectMode) backoff() *retry.Backoff {
	if m.Backoff != nil {
		return m.Backoff
	}
	return retry.Fixed(2*time.Second, 3)
}

// reconnectable reports whether a session error means the link is gone
// rather than that the peers disagree on the protocol or the key.
func reconnectable(err error) bool {
	if sockerr.IsEndOfStream(err) {
		return true
	}
	var te *sockerr.TransportError
	return errors.As(err, &te)
}
