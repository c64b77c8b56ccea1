package capability

import (
	"context"
	"time"

	sockerr "gosock/internal/errors"
	"gosock/internal/metrics"
	"gosock/internal/request"
	"gosock/internal/session"
)

const (
	// SentinelEmpty answers any request that yields no timestamps.
	SentinelEmpty = "EMPTY"

	// TimestampLayout is dd-MM-yyyy HH:mm:ss in local time.
	TimestampLayout = "02-01-2006 15:04:05"

	// DefaultInterval separates consecutive timestamps of one burst.
	DefaultInterval = time.Second
)

// TimeResponder is the server side of the protocol.  For every request
// it either sends one EMPTY or a paced burst of timestamps whose length
// comes from the lookup table.
type TimeResponder struct {
	Interpreter *request.Interpreter
	Interval    time.Duration
	Now         func() time.Time
	Metrics     *metrics.Collector
}

func (r *TimeResponder) interval() time.Duration {
	if r.Interval > 0 {
		return r.Interval
	}
	return DefaultInterval
}

func (r *TimeResponder) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Handle serves requests until the peer disconnects, a session-fatal
// error occurs, or ctx is cancelled.  A clean disconnect and
// cancellation both return nil.
func (r *TimeResponder) Handle(ctx context.Context, sess *session.Session) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		text, err := sess.Channel.Receive()
		if err != nil {
			if sockerr.IsEndOfStream(err) {
				sess.Logger.Verbose("peer closed the connection")
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		r.Metrics.RequestReceived()
		sess.Logger.Debug("request %q", text)

		count, ok := r.resolve(text)
		if !ok {
			r.Metrics.RequestRejected()
			if err := sess.Channel.Send(SentinelEmpty); err != nil {
				return r.sendFailed(ctx, err)
			}
			continue
		}

		sess.Logger.Verbose("sending %d timestamps for %q", count, text)
		if err := r.emit(ctx, sess, count); err != nil {
			return r.sendFailed(ctx, err)
		}
	}
}

// resolve validates text and looks it up.  Misses and non-positive
// counts both resolve to nothing.
func (r *TimeResponder) resolve(text string) (int, bool) {
	if !request.Validate(text) {
		return 0, false
	}
	n, ok := r.Interpreter.Resolve(text)
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

// emit sends count timestamps, one per interval.  Cancellation during a
// pause ends the burst without further sends and without error.
func (r *TimeResponder) emit(ctx context.Context, sess *session.Session, count int) error {
	for i := 0; i < count; i++ {
		if i > 0 && !sleep(ctx, r.interval()) {
			return nil
		}
		if err := sess.Channel.Send(r.now().Format(TimestampLayout)); err != nil {
			return err
		}
		r.Metrics.TimestampSent()
	}
	return nil
}

func (r *TimeResponder) sendFailed(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
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
