// Package backoff provides an exponential-backoff implementation partially
// taken from jpillora/backoff.
package backoff

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/atomic"
)

const (
	factor = 2
	jitter = true
)

// Timer is a backoff timer.
type Timer struct {
	backoff Backoff
	timer   *time.Timer
}

// NewTimer returns a new uninitialized timer.
func NewTimer(min, max time.Duration) Timer {
	return Timer{
		backoff: NewBackoff(min, max),
	}
}

// Next initializes the timer if needed and returns a timer channel that fires
// when the backoff timeout is reached.
func (t *Timer) Next() <-chan time.Time {
	if t.timer == nil {
		t.timer = time.NewTimer(t.backoff.Next())
	} else {
		t.timer.Stop() // ensure drained
		t.timer.Reset(t.backoff.Next())
	}

	return t.timer.C
}

// Stop stops the internal timer and frees its resources. It does nothing if
// the timer is uninitialized.
func (t *Timer) Stop() {
	if t.timer == nil {
		return
	}

	if !t.timer.Stop() {
		// Drain the channel if the tick was never received.
		select {
		case <-t.timer.C:
		default:
		}
	}
}

// Reset resets the backoff attempt counter.
func (t *Timer) Reset() {
	t.backoff.Reset()
}

// Backoff is a time.Duration counter, starting at Min. After every call to
// the Next method the current timing is multiplied by Factor, but it never
// exceeds Max.
type Backoff struct {
	min, max float64 // seconds
	attempt  atomic.Int32
}

// NewBackoff creates a new backoff time.Duration counter.
func NewBackoff(min, max time.Duration) Backoff {
	return Backoff{
		min: min.Seconds(),
		max: max.Seconds(),
	}
}

// Next returns the next backoff duration.
func (b *Backoff) Next() time.Duration {
	return b.forAttempt(b.attempt.Inc() - 1)
}

// Reset restarts the counter from the minimum duration.
func (b *Backoff) Reset() {
	b.attempt.Store(0)
}

const maxInt64 = float64(math.MaxInt64 - 512)

// forAttempt returns the duration for a specific attempt. The first attempt
// should be 0.
func (b *Backoff) forAttempt(attempt int32) time.Duration {
	if b.min >= b.max {
		// short-circuit
		return duration(b.max)
	}

	// Ensure attempt never overflows.
	exp := math.Min(float64(attempt), 1023)
	seconds := b.min * math.Pow(factor, exp)

	if jitter {
		seconds = rand.Float64()*(seconds-b.min) + b.min
	}

	if seconds > b.max {
		return duration(b.max)
	}

	return duration(seconds)
}

func duration(seconds float64) time.Duration {
	if nanos := seconds * float64(time.Second); nanos < maxInt64 {
		return time.Duration(nanos)
	}
	return time.Duration(math.MaxInt64)
}
