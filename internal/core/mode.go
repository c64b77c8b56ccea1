// Package core is the orchestration layer.  It composes transports
// and capabilities into the two operational modes, the server's accept
// loop and the client's connect loop, and provides builders that
// assemble each mode from a Config.
//
// Architecture layers (bottom → top):
//
//	frame → cipherbox → message → session → capability → core → cli
package core

import "context"

// Mode represents a complete operational mode of gosock.  Each mode
// owns its full lifecycle from connection establishment to teardown
// and returns when ctx is cancelled.
type Mode interface {
	Run(ctx context.Context) error
}
