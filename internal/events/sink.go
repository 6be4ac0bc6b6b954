package events

import (
	"fmt"
	"log/slog"
)

// Sink is the polymorphic hook the filtering server fires on every query:
// resolving when a question is picked off the wire, resolved once it has
// been classified (and, if forwarded, answered), error on any codec or
// I/O failure that aborts the current datagram.
type Sink interface {
	Resolving(name string)
	Resolved(status ResolvedStatus)
	Error(message string)
}

// StdoutSink prints events to stdout, in the original tool's style.
type StdoutSink struct{}

func (StdoutSink) Resolving(name string) {
	fmt.Printf("[Resolving] %s\n", name)
}

func (StdoutSink) Resolved(status ResolvedStatus) {
	fmt.Println(status.String())
}

func (StdoutSink) Error(message string) {
	fmt.Println(message)
}

// SlogSink routes events through a structured logger.
type SlogSink struct {
	Logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{Logger: logger}
}

func (s *SlogSink) Resolving(name string) {
	s.Logger.Info("resolving", slog.String("name", name))
}

func (s *SlogSink) Resolved(status ResolvedStatus) {
	attrs := []any{slog.String("status", status.Kind.String())}
	if status.Data != nil {
		attrs = append(attrs,
			slog.String("req_name", status.Data.ReqName),
			slog.String("req_qtype", status.Data.ReqQType.String()),
		)
	}
	switch status.Kind {
	case KindDeny, KindAllowButError, KindNoCheckButError:
		attrs = append(attrs, slog.String("rcode", status.RCode.String()))
	}
	s.Logger.Info(status.String(), attrs...)
}

func (s *SlogSink) Error(message string) {
	s.Logger.Error(message)
}

// OutputFilter decorates another Sink, suppressing Resolved calls per the
// general.output_allowed_log / general.output_nochecked_log configuration
// flags: Allow-class events are dropped unless OutputAllowed is set,
// NoCheck-class events are dropped unless OutputNoCheck is set. Resolving
// and Error always pass through unfiltered.
type OutputFilter struct {
	Next          Sink
	OutputAllowed bool
	OutputNoCheck bool
}

// NewOutputFilter wraps next with the given output gates.
func NewOutputFilter(next Sink, outputAllowed, outputNoCheck bool) *OutputFilter {
	return &OutputFilter{Next: next, OutputAllowed: outputAllowed, OutputNoCheck: outputNoCheck}
}

func (f *OutputFilter) Resolving(name string) {
	f.Next.Resolving(name)
}

func (f *OutputFilter) Error(message string) {
	f.Next.Error(message)
}

func (f *OutputFilter) Resolved(status ResolvedStatus) {
	if status.IsAllowClass() && !f.OutputAllowed {
		return
	}
	if status.IsNoCheckClass() && !f.OutputNoCheck {
		return
	}
	f.Next.Resolved(status)
}
