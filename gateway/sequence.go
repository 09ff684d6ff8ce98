package gateway

import "go.uber.org/atomic"

// Sequence keeps track of the last sequence number received over the Gateway.
// It is resumed from when the connection drops.
type Sequence struct {
	seq atomic.Int64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) Set(seq int64) { s.seq.Store(seq) }
func (s *Sequence) Get() int64    { return s.seq.Load() }
