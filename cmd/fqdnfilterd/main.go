// Command fqdnfilterd runs the local DNS filter: the UDP data plane, the
// ipctl control plane, and the optional status/audit diagnostics
// surfaces, wired together from a layered configuration file.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jroosing/fqdnfilter/internal/audit"
	"github.com/jroosing/fqdnfilter/internal/checklist"
	"github.com/jroosing/fqdnfilter/internal/config"
	"github.com/jroosing/fqdnfilter/internal/events"
	"github.com/jroosing/fqdnfilter/internal/filterstate"
	"github.com/jroosing/fqdnfilter/internal/logging"
	"github.com/jroosing/fqdnfilter/internal/server"
	"github.com/jroosing/fqdnfilter/internal/status"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// rateLimitPerFingerprint bounds how many Resolved log lines a single
// (req_qtype, req_name) fingerprint produces before the rate limiter
// collapses the rest into a single warning; see events.RateLimiter.
const rateLimitPerFingerprint = 20

// cliFlags holds the subset of the configuration surface overridable
// from the command line, applied after the layered config load.
type cliFlags struct {
	configPath string
	address    string
	port       int
	debug      bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flagSet(&f)
	return f
}

func run() error {
	flags := parseFlags()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("fqdnfilterd: config: %w", err)
	}
	applyCLIOverrides(cfg, flags)

	logHandle, err := logging.Configure(logging.Config{Level: cfg.General.LogLevel, LogDir: cfg.General.LogDir})
	if err != nil {
		return fmt.Errorf("fqdnfilterd: logging: %w", err)
	}
	defer logHandle.Close()
	logger := logHandle.Logger()

	instanceID := uuid.New().String()[:8]
	logger = logger.With("instance_id", instanceID)

	logger.Info("fqdnfilterd starting",
		"address", cfg.Server.Address,
		"port", cfg.Server.Port,
		"upstream", cfg.Server.DefaultDNSServer,
	)

	filter, err := buildFilterState(cfg)
	if err != nil {
		return fmt.Errorf("fqdnfilterd: filter state: %w", err)
	}

	var sink events.Sink = events.NewSlogSink(logger)
	sink = events.NewOutputFilter(sink, cfg.General.OutputAllowedLog, cfg.General.OutputNoCheckLog)

	rateLimiter := events.NewRateLimiter(sink, rateLimitPerFingerprint)
	rateLimiter.Ignore = func(k events.Kind) bool {
		return k == events.KindAllow || k == events.KindNoCheck
	}
	sink = rateLimiter

	counters := status.NewCountingSink(sink)
	sink = counters

	var auditDB *audit.DB
	if cfg.Audit.Enabled {
		auditDB, err = audit.Open(cfg.Audit.Path)
		if err != nil {
			return fmt.Errorf("fqdnfilterd: audit store: %w", err)
		}
		defer auditDB.Close()
		auditSink := audit.NewSink(sink, auditDB, logger, 256)
		defer auditSink.Close()
		sink = auditSink
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	udpServer := server.NewUDPServer(cfg.Server.Address, uint16(cfg.Server.Port), filter, sink)
	ipctl := server.NewIPCtl("127.0.0.1", 60001, filter, logHandle, sink)

	errCh := make(chan error, 2)
	go func() { errCh <- udpServer.Serve(ctx) }()
	go func() { errCh <- ipctl.Serve(ctx) }()

	var statusSrv *status.Server
	if cfg.Status.Enabled {
		var reader status.AuditReader
		if auditDB != nil {
			reader = auditReaderAdapter{auditDB}
		}
		statusSrv = status.New(status.Config{Address: cfg.Status.Address, Port: cfg.Status.Port}, logger, counters.Counters, reader, instanceID)
		go func() {
			if err := statusSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server error", "err", err)
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	if statusSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = statusSrv.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	cancel()
	logger.Info("fqdnfilterd stopped")

	if runErr != nil {
		return fmt.Errorf("fqdnfilterd: %w", runErr)
	}
	return nil
}

func buildFilterState(cfg *config.Config) (*filterstate.Shared, error) {
	allow, err := loadOrNew(cfg.General.AllowList)
	if err != nil {
		return nil, fmt.Errorf("allowlist: %w", err)
	}
	deny, err := loadOrNew(cfg.General.DenyList)
	if err != nil {
		return nil, fmt.Errorf("denylist: %w", err)
	}

	upstream := net.ParseIP(cfg.Server.DefaultDNSServer)
	if upstream == nil {
		return nil, fmt.Errorf("invalid default_dns_server %q", cfg.Server.DefaultDNSServer)
	}

	return filterstate.New(checklist.NewComposite(allow, deny), upstream), nil
}

func loadOrNew(path string) (*checklist.CheckList, error) {
	if path == "" {
		return checklist.New(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return checklist.New(), nil
	}
	return checklist.Load(path)
}

// auditReaderAdapter satisfies status.AuditReader in terms of *audit.DB,
// keeping the status package decoupled from the concrete audit store.
type auditReaderAdapter struct {
	db *audit.DB
}

func (a auditReaderAdapter) Recent(n int) ([]status.AuditEntry, error) {
	entries, err := a.db.Recent(n)
	if err != nil {
		return nil, err
	}
	out := make([]status.AuditEntry, len(entries))
	for i, e := range entries {
		out[i] = status.AuditEntry{
			OccurredAt: e.OccurredAt,
			ReqName:    e.ReqName,
			ReqQType:   e.ReqQType,
			StatusKind: e.StatusKind,
			RCode:      e.RCode,
		}
	}
	return out, nil
}
