// Package message composes framing and encryption into a text channel
// over a duplex byte stream.
package message

import (
	"io"
	"time"

	"gosock/internal/cipherbox"
	sockerr "gosock/internal/errors"
	"gosock/internal/frame"
	"gosock/internal/metrics"
)

// deadliner is implemented by net.Conn.  Streams without deadlines
// (buffers, pipes in tests) simply ignore the timeout options.
type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// Channel sends and receives encrypted text frames.  A Channel is owned
// by a single session and is not meant to be shared between goroutines.
type Channel struct {
	rw           io.ReadWriter
	box          *cipherbox.Box
	metrics      *metrics.Collector
	readTimeout  time.Duration
	writeTimeout time.Duration

	// Whether a read or write deadline is currently set on rw.
	readArmed  bool
	writeArmed bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithReadTimeout bounds how long Receive waits for a complete frame.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Channel) { c.readTimeout = d }
}

// WithWriteTimeout bounds how long Send waits for the frame to be
// accepted by the transport.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Channel) { c.writeTimeout = d }
}

// WithMetrics records frame traffic on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Channel) { c.metrics = m }
}

// New returns a Channel over rw using box for payload encryption.
func New(rw io.ReadWriter, box *cipherbox.Box, opts ...Option) *Channel {
	c := &Channel{rw: rw, box: box}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send encrypts text and writes it as one frame.
func (c *Channel) Send(text string) error {
	ciphertext := c.box.Encrypt(text)
	if err := c.setDeadline(false, c.writeTimeout); err != nil {
		return err
	}
	if err := frame.WriteFrame(c.rw, ciphertext); err != nil {
		return err
	}
	c.metrics.BytesSent(int64(frame.HeaderSize + len(ciphertext)))
	return nil
}

// Receive reads one frame and decrypts it.  A peer that closed the
// stream yields [sockerr.ErrEndOfStream]; a payload that does not
// decrypt yields a *CryptoError.
func (c *Channel) Receive() (string, error) {
	return c.receive(c.readTimeout)
}

// ReceiveWithin is Receive with a one-off read timeout overriding the
// channel default.  Expiry is reported as a timeout TransportError (see
// [sockerr.IsTimeout]).
func (c *Channel) ReceiveWithin(d time.Duration) (string, error) {
	return c.receive(d)
}

func (c *Channel) receive(timeout time.Duration) (string, error) {
	// A deadline that cannot be set on a stream the peer already closed
	// is not reported: ReadFrame then sees the end of stream.
	if err := c.setDeadline(true, timeout); err != nil && !sockerr.IsClosed(err) {
		return "", err
	}
	payload, err := frame.ReadFrame(c.rw)
	if err != nil {
		return "", err
	}
	c.metrics.BytesReceived(int64(frame.HeaderSize + len(payload)))
	return c.box.Decrypt(payload)
}

// setDeadline arms (or clears, for d == 0) the read or write deadline.
// Clearing is skipped when no deadline is set.
func (c *Channel) setDeadline(read bool, d time.Duration) error {
	dl, ok := c.rw.(deadliner)
	if !ok {
		return nil
	}
	armed := &c.writeArmed
	set := dl.SetWriteDeadline
	if read {
		armed, set = &c.readArmed, dl.SetReadDeadline
	}
	if d <= 0 && !*armed {
		return nil
	}

	var t time.Time
	if d > 0 {
		t = time.Now().Add(d)
	}
	if err := set(t); err != nil {
		return sockerr.Transport("deadline", "", err)
	}
	*armed = d > 0
	return nil
}
