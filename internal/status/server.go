// Package status implements the optional, read-only diagnostics HTTP
// endpoint (component M): process health, classification counters, and
// recent audit entries. It never touches the shared filter state — ipctl
// remains the sole mutation path.
package status

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"
)

// AuditReader supplies recent entries for /audit, satisfied by an
// adapter over *audit.DB in cmd/fqdnfilterd. Kept as a narrow interface so this package never imports
// the audit package directly (the status endpoint works with or without
// the audit store enabled).
type AuditReader interface {
	Recent(n int) ([]AuditEntry, error)
}

// AuditEntry mirrors the fields of audit.Entry this endpoint renders.
type AuditEntry struct {
	OccurredAt time.Time `json:"occurred_at"`
	ReqName    string    `json:"req_name"`
	ReqQType   string    `json:"req_qtype"`
	StatusKind string    `json:"status_kind"`
	RCode      string    `json:"rcode"`
}

// Server is the read-only diagnostics HTTP server.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	counters   *Counters
	audit      AuditReader
	instanceID string
	startTime  time.Time
	engine     *gin.Engine
	httpServer *http.Server
}

// Config selects the bind address for the status server.
type Config struct {
	Address string
	Port    int
}

// New builds the status server. audit may be nil when the audit store is
// disabled; /audit then always returns an empty list.
func New(cfg Config, logger *slog.Logger, counters *Counters, audit AuditReader, instanceID string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		counters:   counters,
		audit:      audit,
		instanceID: instanceID,
		startTime:  time.Now(),
		engine:     engine,
	}

	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/stats", s.handleStats)
	engine.GET("/audit", s.handleAudit)
	mountDiagnosticsUI(engine, logger)

	addr := net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving HTTP until Shutdown is called.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type healthResponse struct {
	Status       string  `json:"status"`
	InstanceID   string  `json:"instance_id"`
	UptimeSecond int64   `json:"uptime_seconds"`
	RSSMB        float64 `json:"rss_mb"`
	CPUPercent   float64 `json:"cpu_percent"`
	NumGoroutine int     `json:"num_goroutine"`
}

func (s *Server) handleHealthz(c *gin.Context) {
	resp := healthResponse{
		Status:       "ok",
		InstanceID:   s.instanceID,
		UptimeSecond: int64(time.Since(s.startTime).Seconds()),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			resp.RSSMB = float64(mi.RSS) / 1024 / 1024
		}
		if pct, err := proc.CPUPercent(); err == nil {
			resp.CPUPercent = pct
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.counters.Snapshot())
}

func (s *Server) handleAudit(c *gin.Context) {
	if s.audit == nil {
		c.JSON(http.StatusOK, []AuditEntry{})
		return
	}
	entries, err := s.audit.Recent(50)
	if err != nil {
		s.logger.Warn("status: failed to read audit entries", slog.Any("error", err))
		c.JSON(http.StatusOK, []AuditEntry{})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		if logger != nil {
			logger.Info("status request",
				"method", method,
				"path", path,
				"status", c.Writer.Status(),
				"latency_ms", time.Since(start).Milliseconds(),
			)
		}
	}
}
