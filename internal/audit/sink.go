package audit

import (
	"log/slog"
	"time"

	"github.com/jroosing/fqdnfilter/internal/events"
)

// Sink decorates another events.Sink, recording a Entry for every
// Resolved call asynchronously before delegating to Next. Recording never
// blocks the caller: entries are enqueued onto a buffered channel and
// written by one background goroutine; a full queue drops the newest
// entry (the one being recorded) rather than stalling the UDP worker, with
// the drop logged at warn level.
type Sink struct {
	Next   events.Sink
	db     *DB
	logger *slog.Logger
	queue  chan Entry
	done   chan struct{}
}

// NewSink starts the background writer and returns a Sink wrapping next.
// queueSize bounds how many unwritten entries may be pending before new
// ones are dropped.
func NewSink(next events.Sink, db *DB, logger *slog.Logger, queueSize int) *Sink {
	s := &Sink{
		Next:   next,
		db:     db,
		logger: logger,
		queue:  make(chan Entry, queueSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Sink) run() {
	defer close(s.done)
	for e := range s.queue {
		if err := s.db.Insert(e); err != nil {
			s.logger.Warn("audit: failed to persist entry", slog.Any("error", err))
		}
	}
}

// Close stops accepting new entries and waits for the writer to drain.
func (s *Sink) Close() {
	close(s.queue)
	<-s.done
}

func (s *Sink) Resolving(name string) {
	s.Next.Resolving(name)
}

func (s *Sink) Error(message string) {
	s.Next.Error(message)
}

func (s *Sink) Resolved(status events.ResolvedStatus) {
	entry := Entry{OccurredAt: time.Now(), StatusKind: status.Kind.String(), RCode: status.RCode.String()}
	if status.Data != nil {
		entry.ReqName = status.Data.ReqName
		entry.ReqQType = status.Data.ReqQType.String()
	}

	select {
	case s.queue <- entry:
	default:
		s.logger.Warn("audit: queue full, dropping entry", slog.String("req_name", entry.ReqName))
	}

	s.Next.Resolved(status)
}
