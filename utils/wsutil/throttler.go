package wsutil

import (
	"time"

	"golang.org/x/time/rate"
)

// NewSendLimiter mirrors the Discord gateway's 120 commands per minute
// budget, with a couple of slots reserved for heartbeats.
func NewSendLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/118), 118)
}

// NewDialLimiter keeps reconnections under the documented 5 seconds per
// identify.
func NewDialLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(5*time.Second), 1)
}
