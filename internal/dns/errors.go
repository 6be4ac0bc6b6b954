// Package dns implements the wire codec for the subset of RFC 1035 this
// filter needs: a fixed 512-byte packet buffer, message/header/question/
// record layout, and name compression on read. It deliberately does not
// implement EDNS(0), DNSSEC, or TCP framing — those are non-goals of the
// filter this package serves.
package dns

import (
	"errors"
	"fmt"
)

// ErrEndOfBuffer is returned whenever a read or write would run past the
// end of the fixed 512-byte packet buffer.
var ErrEndOfBuffer = errors.New("dns: end of buffer")

// ErrSingleLabelLimit is returned by WriteQName when a label exceeds 63
// bytes, the maximum a DNS length-prefixed label can encode.
var ErrSingleLabelLimit = errors.New("dns: label exceeds 63 bytes")

// JumpLimitError is returned by ReadQName when a compressed name's pointer
// chain exceeds the jump cap.
type JumpLimitError struct {
	Limit int
}

func (e *JumpLimitError) Error() string {
	return fmt.Sprintf("dns: limit of %d jumps exceeded", e.Limit)
}

// Is matches any *JumpLimitError with the same limit, so errors.Is works
// against ErrJumpLimit.
func (e *JumpLimitError) Is(target error) bool {
	t, ok := target.(*JumpLimitError)
	return ok && t.Limit == e.Limit
}

// ErrJumpLimit is the sentinel jump-limit error at the default cap, usable
// with errors.Is against any *JumpLimitError of the same limit.
var ErrJumpLimit = &JumpLimitError{Limit: maxJumps}
