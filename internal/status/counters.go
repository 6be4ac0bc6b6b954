package status

import (
	"sync/atomic"

	"github.com/jroosing/fqdnfilter/internal/events"
)

// Counters tallies classification outcomes since process start, updated
// from the hot path with sync/atomic so /stats never takes a lock shared
// with the UDP worker.
type Counters struct {
	total         atomic.Int64
	allowed       atomic.Int64
	denied        atomic.Int64
	noCheck       atomic.Int64
	errored       atomic.Int64
}

// Snapshot is a point-in-time read of Counters.
type Snapshot struct {
	Total   int64 `json:"total"`
	Allowed int64 `json:"allowed"`
	Denied  int64 `json:"denied"`
	NoCheck int64 `json:"no_check"`
	Errored int64 `json:"errored"`
}

// CountingSink decorates another events.Sink, incrementing Counters on
// every Resolved and Error call before delegating. Resolving is passed
// through uncounted.
type CountingSink struct {
	Next     events.Sink
	Counters *Counters
}

// NewCountingSink wraps next with a fresh Counters instance.
func NewCountingSink(next events.Sink) *CountingSink {
	return &CountingSink{Next: next, Counters: &Counters{}}
}

func (s *CountingSink) Resolving(name string) {
	s.Next.Resolving(name)
}

func (s *CountingSink) Error(message string) {
	s.Counters.errored.Add(1)
	s.Next.Error(message)
}

func (s *CountingSink) Resolved(status events.ResolvedStatus) {
	s.Counters.total.Add(1)
	switch {
	case status.Kind == events.KindDeny:
		s.Counters.denied.Add(1)
	case status.IsNoCheckClass():
		s.Counters.noCheck.Add(1)
	default:
		s.Counters.allowed.Add(1)
	}
	s.Next.Resolved(status)
}

// Snapshot reads the current counts.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Total:   c.total.Load(),
		Allowed: c.allowed.Load(),
		Denied:  c.denied.Load(),
		NoCheck: c.noCheck.Load(),
		Errored: c.errored.Load(),
	}
}
