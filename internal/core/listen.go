package core

import (
	"context"
	"net"
	"time"

	"gosock/internal/capability"
	"gosock/internal/cipherbox"
	sockerr "gosock/internal/errors"
	"gosock/internal/message"
	"gosock/internal/metrics"
	"gosock/internal/session"
	"gosock/util"
)

// Bounds of the pause taken after an accept error that is neither a
// shutdown nor a timeout.
const (
	minAcceptPause = 5 * time.Millisecond
	maxAcceptPause = time.Second
)

// ListenMode accepts inbound connections and runs a capability on each
// one in its own goroutine.
type ListenMode struct {
	Address    string // ":port"
	Capability capability.Capability
	Box        *cipherbox.Box
	Logger     *util.Logger
	Metrics    *metrics.Collector

	// IdleTimeout bounds each wait for a request; WriteTimeout bounds
	// each frame write.  Zero disables either.
	IdleTimeout  time.Duration
	WriteTimeout time.Duration

	// AcceptTimeout, when positive, bounds each wait for a connection.
	// An expiry is logged and the loop carries on.
	AcceptTimeout time.Duration
}

// Run listens on Address and serves until ctx is cancelled.
func (m *ListenMode) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.Address)
	if err != nil {
		return sockerr.Transport("listen", m.Address, err)
	}
	m.Logger.Info("server started, listening on %s", ln.Addr())
	return m.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes
// ln and returns nil.  Sessions still running are not waited for; each
// closes its own connection on cancellation.
func (m *ListenMode) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	stop := context.AfterFunc(ctx, func() { ln.Close() }) //nolint:errcheck
	defer stop()

	var pause time.Duration
	for {
		m.armAcceptDeadline(ln)

		conn, err := ln.Accept()
		if err != nil {
			switch {
			case ctx.Err() != nil:
				m.Logger.Info("server stopped")
				return nil
			case sockerr.IsTimeout(err):
				m.Logger.Verbose("no connection within %s", m.AcceptTimeout)
				continue
			case sockerr.IsClosed(err):
				return sockerr.Transport("accept", ln.Addr().String(), err)
			}

			pause = nextPause(pause)
			m.Logger.Error("accept: %v; retrying in %s", err, pause)
			m.Metrics.RecordError(err.Error())
			if !sleep(ctx, pause) {
				m.Logger.Info("server stopped")
				return nil
			}
			continue
		}
		pause = 0

		go m.serveConn(ctx, conn)
	}
}

// armAcceptDeadline applies AcceptTimeout to listeners that support
// deadlines (*net.TCPListener does).
func (m *ListenMode) armAcceptDeadline(ln net.Listener) {
	if m.AcceptTimeout <= 0 {
		return
	}
	if dl, ok := ln.(interface{ SetDeadline(time.Time) error }); ok {
		dl.SetDeadline(time.Now().Add(m.AcceptTimeout)) //nolint:errcheck
	}
}

func (m *ListenMode) serveConn(ctx context.Context, conn net.Conn) {
	ch := message.New(conn, m.Box,
		message.WithReadTimeout(m.IdleTimeout),
		message.WithWriteTimeout(m.WriteTimeout),
		message.WithMetrics(m.Metrics),
	)
	sess := session.New(conn, ch, nil, nil, m.Logger)
	stop := sess.CloseOnDone(ctx)
	defer stop()
	defer sess.Close() //nolint:errcheck

	m.Metrics.SessionOpened()
	defer m.Metrics.SessionClosed()

	sess.Logger.Info("client connected")
	err := m.Capability.Handle(ctx, sess)
	switch {
	case err == nil:
		sess.Logger.Info("client disconnected")
	case sockerr.IsTimeout(err):
		sess.Logger.Info("client idle, closing connection")
	default:
		sess.Logger.Error("session ended: %v", err)
		m.Metrics.RecordError(err.Error())
	}
}

// nextPause doubles the previous pause within [minAcceptPause,
// maxAcceptPause].
func nextPause(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptPause
	}
	if next := prev * 2; next < maxAcceptPause {
		return next
	}
	return maxAcceptPause
}

// sleep waits for d or until ctx is done.  It reports whether the full
// duration elapsed with ctx still live.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return ctx.Err() == nil
	case <-ctx.Done():
		return false
	}
}
