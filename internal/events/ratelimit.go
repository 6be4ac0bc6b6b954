package events

import (
	"fmt"
	"hash/fnv"
	"math"
	"sync"
)

// RateLimiter wraps another Sink and caps how many Resolved events a
// single (req_qtype, req_name) fingerprint can produce: the first Limit
// events pass through unmodified, the (Limit+1)th produces exactly one
// warning via the wrapped sink's Error hook, and every event after that
// is dropped. The per-fingerprint counter saturates rather than
// wrapping once it reaches math.MaxUint64.
type RateLimiter struct {
	next  Sink
	limit uint64
	// Ignore reports whether a status's Kind should bypass rate limiting
	// entirely — such events are always forwarded and never counted.
	Ignore func(Kind) bool

	mu     sync.Mutex
	counts map[uint64]uint64
}

// NewRateLimiter wraps next, allowing up to limit events per fingerprint
// before suppressing further ones.
func NewRateLimiter(next Sink, limit uint64) *RateLimiter {
	return &RateLimiter{
		next:   next,
		limit:  limit,
		counts: make(map[uint64]uint64),
	}
}

func (r *RateLimiter) Resolving(name string) {
	r.next.Resolving(name)
}

func (r *RateLimiter) Error(message string) {
	r.next.Error(message)
}

func (r *RateLimiter) Resolved(status ResolvedStatus) {
	if r.Ignore != nil && r.Ignore(status.Kind) {
		r.next.Resolved(status)
		return
	}

	fp := fingerprint(status)
	count := r.increment(fp)

	switch {
	case count <= r.limit:
		r.next.Resolved(status)
	case count == r.limit+1:
		r.next.Error(fmt.Sprintf(
			"rate limit exceeded for <%s> %s; suppressing further events",
			status.Data.ReqQType, status.Data.ReqName))
	default:
		// dropped
	}
}

func (r *RateLimiter) increment(fp uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := r.counts[fp]
	if count < math.MaxUint64 {
		count++
	}
	r.counts[fp] = count
	return count
}

func fingerprint(status ResolvedStatus) uint64 {
	h := fnv.New64a()
	if status.Data != nil {
		fmt.Fprintf(h, "%d:%s", status.Data.ReqQType, status.Data.ReqName)
	}
	return h.Sum64()
}
