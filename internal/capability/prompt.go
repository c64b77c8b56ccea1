package capability

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	sockerr "gosock/internal/errors"
	"gosock/internal/frame"
	"gosock/internal/session"
)

const (
	// PromptText is printed before each line when stdin is a terminal.
	PromptText = "Enter a message to send (or 'quit' to exit):"

	// DefaultDrainTimeout is how long the prompt keeps reading responses
	// after the last one arrived.  It must exceed the server's interval.
	DefaultDrainTimeout = 1500 * time.Millisecond
)

// Prompt is the client side of the protocol: it reads lines from the
// session's stdin, sends each one, and prints every response until the
// server goes quiet.
//
// A Prompt may be handed several sessions in turn (after a reconnect).
// Stdin is read by a single goroutine started on first use, so a line
// typed while the connection was down is not lost, and a line whose
// send failed is re-sent on the next session.
type Prompt struct {
	Interactive  bool
	DrainTimeout time.Duration

	once    sync.Once
	lines   chan string
	pending string
}

func (p *Prompt) drainTimeout() time.Duration {
	if p.DrainTimeout > 0 {
		return p.DrainTimeout
	}
	return DefaultDrainTimeout
}

// start launches the stdin reader.  The channel is closed at EOF.
func (p *Prompt) start(in io.Reader) <-chan string {
	p.once.Do(func() {
		p.lines = make(chan string)
		go func() {
			defer close(p.lines)
			sc := bufio.NewScanner(in)
			sc.Buffer(make([]byte, 0, 64*1024), frame.MaxFrameBytes)
			for sc.Scan() {
				p.lines <- sc.Text()
			}
		}()
	})
	return p.lines
}

// Handle runs the prompt loop.  It returns nil when the user quits,
// stdin is exhausted or ctx is cancelled, and the connection error
// otherwise.
func (p *Prompt) Handle(ctx context.Context, sess *session.Session) error {
	lines := p.start(sess.Stdin)
	for {
		line := p.pending
		if line == "" {
			if p.Interactive {
				fmt.Fprintln(sess.Stdout, PromptText)
			}
			var ok bool
			select {
			case <-ctx.Done():
				return nil
			case line, ok = <-lines:
				if !ok {
					return nil
				}
			}
			if line == "" || strings.EqualFold(line, "quit") {
				return nil
			}
		}

		if err := sess.Channel.Send(line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.pending = line
			return err
		}
		p.pending = ""
		fmt.Fprintf(sess.Stdout, "Sent: %s\n", line)

		if err := p.drain(ctx, sess); err != nil {
			return err
		}
	}
}

// drain prints responses until none arrives within the drain window.
func (p *Prompt) drain(ctx context.Context, sess *session.Session) error {
	for {
		text, err := sess.Channel.ReceiveWithin(p.drainTimeout())
		if err != nil {
			if ctx.Err() != nil || sockerr.IsTimeout(err) {
				return nil
			}
			return err
		}
		fmt.Fprintf(sess.Stdout, "Received: %s\n", text)
	}
}
