// Package filterstate holds the composite allow/deny filter under a
// reader/writer lock, shared between the UDP data-plane server and the
// ipctl control-plane server (component I of the filter).
package filterstate

import (
	"net"
	"sync"

	"github.com/jroosing/fqdnfilter/internal/checklist"
)

// Shared is a RWMutex-guarded holder of the composite allow/deny list plus
// the upstream server address. The upstream address is held in the same
// structure for symmetry with the original design, which reserves it for
// future mutation; nothing here currently changes it at runtime.
type Shared struct {
	mu        sync.RWMutex
	composite *checklist.Composite
	upstream  net.IP
}

// New wraps composite and the initial upstream address for concurrent
// access.
func New(composite *checklist.Composite, upstream net.IP) *Shared {
	return &Shared{composite: composite, upstream: upstream}
}

// Check takes a read lock for the duration of classification only; no I/O
// happens while the lock is held.
func (s *Shared) Check(name string) checklist.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.composite.Check(name)
}

// Upstream returns the currently configured upstream address.
func (s *Shared) Upstream() net.IP {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.upstream
}

// Allow runs fn with a write lock held over the allowlist. Used by ipctl's
// allow/deny/save verbs, each a single mutation under one lock acquisition.
func (s *Shared) Allow(fn func(*checklist.CheckList) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.composite.Allow)
}

// ListAllow materializes a snapshot of the allowlist's entries while
// holding a read lock, releasing the lock only after the full snapshot is
// built (no streaming with the lock dropped).
func (s *Shared) ListAllow() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.composite.Allow.Iter()
}
