// Package transport provides the ways a client reaches the server:
// a direct TCP dial, or a TCP dial forwarded through an SSH gateway.
// What happens over the connection is the capability layer's job.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound connections to the server.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
