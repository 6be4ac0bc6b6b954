package status

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/jroosing/fqdnfilter/internal/dns"
	"github.com/jroosing/fqdnfilter/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSink struct{}

func (stubSink) Resolving(string)                {}
func (stubSink) Resolved(events.ResolvedStatus)  {}
func (stubSink) Error(string)                    {}

func TestHealthzReportsInstanceID(t *testing.T) {
	counters := NewCountingSink(stubSink{}).Counters
	srv := New(Config{Address: "127.0.0.1", Port: 0}, slog.Default(), counters, nil, "abcd1234")

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "abcd1234", body.InstanceID)
}

func TestStatsReflectsCounters(t *testing.T) {
	sink := NewCountingSink(stubSink{})
	data := events.NewResolvedData(dns.QTypeA, "example.com")
	sink.Resolved(events.Allow(data))
	sink.Resolved(events.Deny(data, dns.RCodeNXDomain))

	srv := New(Config{Address: "127.0.0.1", Port: 0}, slog.Default(), sink.Counters, nil, "id")

	req := httptest.NewRequest("GET", "/stats", nil)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.EqualValues(t, 2, snap.Total)
	assert.EqualValues(t, 1, snap.Allowed)
	assert.EqualValues(t, 1, snap.Denied)
}

func TestAuditEndpointEmptyWhenDisabled(t *testing.T) {
	counters := NewCountingSink(stubSink{}).Counters
	srv := New(Config{Address: "127.0.0.1", Port: 0}, slog.Default(), counters, nil, "id")

	req := httptest.NewRequest("GET", "/audit", nil)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDiagnosticsUIServesPlaceholderAndSwagger(t *testing.T) {
	counters := NewCountingSink(stubSink{}).Counters
	srv := New(Config{Address: "127.0.0.1", Port: 0}, slog.Default(), counters, nil, "id")

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "fqdnfilterd")

	req = httptest.NewRequest("GET", "/swagger/index.html", nil)
	rec = httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
}
