// Package upstream performs the one-shot synchronous UDP exchange with a
// configured upstream DNS server (component C of the filter).
package upstream

import (
	"fmt"
	"net"
	"time"

	"github.com/jroosing/fqdnfilter/internal/dns"
)

// Result is the decoded answer to a single upstream query, plus the raw
// wire bytes so the caller can relay them verbatim without reparsing.
type Result struct {
	Raw     []byte
	Message *dns.Message
}

// DefaultTimeout bounds the upstream receive wait: a stuck upstream folds
// to ServFail instead of blocking a worker indefinitely.
const DefaultTimeout = 2 * time.Second

// Lookup sends a single question to server (host:53) and returns its
// response. recursion_desired is always set on the outgoing query. The
// local endpoint binds ephemerally rather than to a fixed port, so
// concurrent lookups never contend on a shared socket.
func Lookup(server net.IP, id uint16, name string, qtype dns.QType) (*Result, error) {
	return LookupWithTimeout(server, id, name, qtype, DefaultTimeout)
}

// LookupWithTimeout is Lookup with an explicit receive deadline.
func LookupWithTimeout(server net.IP, id uint16, name string, qtype dns.QType, timeout time.Duration) (*Result, error) {
	return LookupAddr(net.JoinHostPort(server.String(), "53"), id, name, qtype, timeout)
}

// LookupAddr is LookupWithTimeout against an explicit "host:port" address,
// split out so tests can exercise the exchange against an ephemeral-port
// fake upstream without binding the privileged port 53.
func LookupAddr(addr string, id uint16, name string, qtype dns.QType, timeout time.Duration) (*Result, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("upstream: dial: %w", err)
	}
	defer conn.Close()
	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("upstream: set deadline: %w", err)
		}
	}

	query := dns.NewMessage()
	query.Header.ID = id
	query.Header.RecursionDesired = true
	query.Questions = []dns.Question{dns.NewQuestion(name, qtype)}

	reqBuf := dns.NewBuffer()
	if err := query.Write(reqBuf); err != nil {
		return nil, fmt.Errorf("upstream: encode query: %w", err)
	}
	if _, err := conn.Write(reqBuf.Written()); err != nil {
		return nil, fmt.Errorf("upstream: send: %w", err)
	}

	respBuf := dns.NewBuffer()
	n, err := conn.Read(respBuf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("upstream: receive: %w", err)
	}

	resp := dns.NewMessage()
	if err := resp.Read(respBuf); err != nil {
		return nil, fmt.Errorf("upstream: decode response: %w", err)
	}

	raw := make([]byte, n)
	copy(raw, respBuf.Bytes()[:n])

	return &Result{Raw: raw, Message: resp}, nil
}
