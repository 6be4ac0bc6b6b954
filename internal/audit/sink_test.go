package audit

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jroosing/fqdnfilter/internal/dns"
	"github.com/jroosing/fqdnfilter/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullSink struct{ resolved int }

func (n *nullSink) Resolving(string)           {}
func (n *nullSink) Resolved(events.ResolvedStatus) { n.resolved++ }
func (n *nullSink) Error(string)               {}

func TestSinkPersistsAndDelegates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	next := &nullSink{}
	sink := NewSink(next, db, slog.Default(), 8)

	data := events.NewResolvedData(dns.QTypeA, "example.com")
	sink.Resolved(events.Allow(data))
	sink.Close()

	assert.Equal(t, 1, next.resolved)

	entries, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "example.com", entries[0].ReqName)
	assert.Equal(t, "Allow", entries[0].StatusKind)
}

func TestSinkDropsWhenQueueFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	next := &nullSink{}
	sink := NewSink(next, db, slog.Default(), 1)
	defer sink.Close()

	data := events.NewResolvedData(dns.QTypeA, "a.test")
	for i := 0; i < 20; i++ {
		sink.Resolved(events.Allow(data))
	}
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 20, next.resolved)
}
