// Package session represents a single connection lifecycle, binding a
// network connection with its message channel and local I/O.
//
// Capabilities work on a Session rather than a raw net.Conn: a
// capability doesn't need to know whether the peer is a TCP socket or
// one end of a net.Pipe in a test.
package session

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"

	"gosock/internal/message"
	"gosock/util"
)

// Session encapsulates the runtime context for a single connection.
type Session struct {
	ID      uuid.UUID
	Conn    net.Conn
	Channel *message.Channel
	Stdin   io.Reader
	Stdout  io.Writer
	Logger  *util.Logger

	closeOnce sync.Once
	closeErr  error
}

// New creates a Session with a fresh ID.  The logger is tagged with the
// session ID and the peer address.
func New(conn net.Conn, ch *message.Channel, stdin io.Reader, stdout io.Writer, logger *util.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:      id,
		Conn:    conn,
		Channel: ch,
		Stdin:   stdin,
		Stdout:  stdout,
		Logger:  logger.With("session", id.String()).With("remote", conn.RemoteAddr().String()),
	}
}

// Close closes the connection.  Only the first call has any effect;
// later calls return the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.Conn.Close()
	})
	return s.closeErr
}

// CloseOnDone closes the session as soon as ctx is done, releasing any
// read or write blocked on the connection.  The returned stop function
// detaches the hook.
func (s *Session) CloseOnDone(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() { s.Close() }) //nolint:errcheck
}
