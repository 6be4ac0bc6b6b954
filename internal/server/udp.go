// Package server implements the two long-running workers of the filter:
// the UDP filtering DNS server (component G) and the TCP ipctl control
// plane (component H).
package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jroosing/fqdnfilter/internal/checklist"
	"github.com/jroosing/fqdnfilter/internal/dns"
	"github.com/jroosing/fqdnfilter/internal/events"
	"github.com/jroosing/fqdnfilter/internal/filterstate"
	"github.com/jroosing/fqdnfilter/internal/upstream"
)

// UDPServer is the filtering DNS server: one UDP receive loop per worker,
// each performing decode, classification, upstream forward, and response
// encode/send for a single datagram at a time.
type UDPServer struct {
	Address  string
	Port     uint16
	Filter   *filterstate.Shared
	Sink     events.Sink
	// Workers is the number of goroutines sharing the same listening
	// socket and filter handle. Defaults to 1.
	Workers int

	// lookup is overridable in tests; defaults to upstream.Lookup.
	lookup func(server net.IP, id uint16, name string, qtype dns.QType) (*upstream.Result, error)
}

// NewUDPServer builds a filtering server bound to address:port, forwarding
// allowed/no-check queries through filter's configured upstream.
func NewUDPServer(address string, port uint16, filter *filterstate.Shared, sink events.Sink) *UDPServer {
	return &UDPServer{
		Address: address,
		Port:    port,
		Filter:  filter,
		Sink:    sink,
		Workers: 1,
		lookup:  upstream.Lookup,
	}
}

// Serve binds the UDP socket and blocks, running the receive loop(s)
// until ctx is cancelled.
func (s *UDPServer) Serve(ctx context.Context) error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP(s.Address), Port: int(s.Port)})
	if err != nil {
		return fmt.Errorf("server: listen udp %s:%d: %w", s.Address, s.Port, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}

	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			errCh <- s.loop(ctx, conn)
		}()
	}

	for i := 0; i < workers; i++ {
		if err := <-errCh; err != nil && ctx.Err() == nil {
			return err
		}
	}
	return nil
}

func (s *UDPServer) loop(ctx context.Context, conn *net.UDPConn) error {
	buf := make([]byte, 512)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("server: recv: %w", err)
		}
		s.handleDatagram(conn, buf[:n], addr)
	}
}

func (s *UDPServer) handleDatagram(conn *net.UDPConn, data []byte, addr *net.UDPAddr) {
	reqBuf := dns.NewBuffer()
	copy(reqBuf.Bytes(), data)

	req := dns.NewMessage()
	if err := req.Read(reqBuf); err != nil {
		s.Sink.Error(fmt.Sprintf("decode request from %s: %v", addr, err))
		return
	}

	if len(req.Questions) == 0 {
		resp := s.synthesize(req.Header, dns.RCodeFormErr)
		s.send(conn, addr, resp)
		s.Sink.Error(fmt.Sprintf("%d: form error (no question)", req.Header.ID))
		return
	}

	q := req.Questions[0]
	s.Sink.Resolving(q.Name)

	if !q.QType.IsAddressType() {
		s.forward(conn, addr, req.Header, q, true)
		return
	}

	switch s.Filter.Check(q.Name) {
	case checklist.StatusAllow:
		s.forward(conn, addr, req.Header, q, false)
	case checklist.StatusDeny, checklist.StatusNotFound:
		resp := s.synthesize(req.Header, dns.RCodeNXDomain)
		s.send(conn, addr, resp)
		s.Sink.Resolved(events.Deny(events.NewResolvedData(q.QType, q.Name), dns.RCodeNXDomain))
	}
}

// forward performs the upstream exchange and relays the raw response
// bytes verbatim to the client, so rdata types this codec doesn't decode
// survive untouched. noCheck selects whether the Allow/AllowButError
// classification folds into NoCheck/NoCheckButError (qtypes that bypass
// policy entirely).
func (s *UDPServer) forward(conn *net.UDPConn, addr *net.UDPAddr, reqHeader dns.Header, q dns.Question, noCheck bool) {
	data := events.NewResolvedData(q.QType, q.Name)

	result, err := s.lookup(s.Filter.Upstream(), reqHeader.ID, q.Name, q.QType)
	if err != nil {
		resp := s.synthesize(reqHeader, dns.RCodeServFail)
		s.send(conn, addr, resp)
		s.Sink.Resolved(s.fold(noCheck, data, dns.RCodeServFail, false))
		return
	}

	for _, rec := range result.Message.Answers {
		data.Append(rec.Data.QType(), rec.Data.String())
	}

	if _, err := conn.WriteToUDP(result.Raw, addr); err != nil {
		s.Sink.Error(fmt.Sprintf("send response to %s: %v", addr, err))
		return
	}

	if result.Message.Header.RCode == dns.RCodeNoError {
		s.Sink.Resolved(s.fold(noCheck, data, dns.RCodeNoError, true))
	} else {
		s.Sink.Resolved(s.fold(noCheck, data, result.Message.Header.RCode, false))
	}
}

func (s *UDPServer) fold(noCheck bool, data *events.ResolvedData, rcode dns.RCode, ok bool) events.ResolvedStatus {
	switch {
	case noCheck && ok:
		return events.NoCheck(data)
	case noCheck && !ok:
		return events.NoCheckButError(data, rcode)
	case !noCheck && ok:
		return events.Allow(data)
	default:
		return events.AllowButError(data, rcode)
	}
}

// synthesize builds a denial/error response: id and rd mirrored from the
// request, ra always set (the filter always behaves as if recursion were
// available, since it forwards to an upstream that provides it), qr set
// to mark it a response, the given rcode, and empty sections.
func (s *UDPServer) synthesize(reqHeader dns.Header, rcode dns.RCode) *dns.Message {
	resp := dns.NewMessage()
	resp.Header.ID = reqHeader.ID
	resp.Header.RecursionDesired = reqHeader.RecursionDesired
	resp.Header.RecursionAvailable = true
	resp.Header.Response = true
	resp.Header.RCode = rcode
	return resp
}

func (s *UDPServer) send(conn *net.UDPConn, addr *net.UDPAddr, resp *dns.Message) {
	buf := dns.NewBuffer()
	if err := resp.Write(buf); err != nil {
		s.Sink.Error(fmt.Sprintf("encode response: %v", err))
		return
	}
	if _, err := conn.WriteToUDP(buf.Written(), addr); err != nil {
		s.Sink.Error(fmt.Sprintf("send response to %s: %v", addr, err))
	}
}
