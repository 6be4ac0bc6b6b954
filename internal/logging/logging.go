// Package logging configures the filter's structured logger and exposes
// a runtime-mutable level so the ipctl control plane can change verbosity
// without restarting the process.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LevelTrace sits below slog's built-in Debug, matching the general
// section's five-level vocabulary (error/warn/info/debug/trace).
const LevelTrace = slog.Level(-8)

// Config selects the logger's destination and initial verbosity.
type Config struct {
	Level  string
	LogDir string
}

// Handle is the reload handle: a level variable plus the file writer's
// close, so cmd/fqdnfilterd can flush on shutdown.
type Handle struct {
	logger *slog.Logger
	level  *slog.LevelVar
	file   io.Closer
}

// Configure builds a logger writing to stderr, and additionally to a file
// under cfg.LogDir when set, named local-fqdn-filter.log.YYYY-MM-DD for
// the date Configure runs. The file is opened once; it is not rotated
// while the process keeps running.
func Configure(cfg Config) (*Handle, error) {
	levelVar := &slog.LevelVar{}
	levelVar.Set(parseLevel(cfg.Level))

	var writers []io.Writer
	writers = append(writers, os.Stderr)

	var fileCloser io.Closer
	if cfg.LogDir != "" {
		f, err := openDailyLogFile(cfg.LogDir)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		writers = append(writers, f)
		fileCloser = f
	}

	out := io.MultiWriter(writers...)
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: levelVar,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return &Handle{logger: logger, level: levelVar, file: fileCloser}, nil
}

// Logger returns the configured logger.
func (h *Handle) Logger() *slog.Logger {
	return h.logger
}

// SetLevel parses level (case-insensitive, one of error/warn/info/
// debug/trace) and mutates the live handler's verbosity. Satisfies
// server.LevelSetter so the ipctl `log <level>` verb can drive it.
func (h *Handle) SetLevel(level string) error {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if !validLevels[normalized] {
		return fmt.Errorf("unrecognized log level %q", level)
	}
	h.level.Set(parseLevel(normalized))
	return nil
}

// Close flushes and closes the file writer, if one was opened.
func (h *Handle) Close() error {
	if h.file == nil {
		return nil
	}
	return h.file.Close()
}

var validLevels = map[string]bool{
	"error": true,
	"warn":  true,
	"info":  true,
	"debug": true,
	"trace": true,
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

func openDailyLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("local-fqdn-filter.log.%s", time.Now().Format("2006-01-02"))
	return os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
