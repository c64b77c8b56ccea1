// Package capability defines what happens over an established
// connection.  Each Capability encapsulates one side of the protocol
// (the server's timestamp responder, the client's console prompt) and
// operates on a Session rather than a raw net.Conn, which keeps
// capabilities testable and decoupled from transport details.
package capability

import (
	"context"

	"gosock/internal/session"
)

// Capability handles a single connection according to a specific
// behaviour.
type Capability interface {
	// Handle runs the capability against the given session.
	// It blocks until the connection is done or the context is
	// cancelled.  Closing the session is the caller's job.
	Handle(ctx context.Context, sess *session.Session) error
}
