// Package supervisor provides file-backed implementations of core.Auditor
// and core.Tracer.
//
// Both append one line per call to their log file through a log/slog handler:
// FileAuditor writes logfmt-style text lines, FileTracer writes JSON lines.
// The file is opened, written and closed on every call, so several processes
// may share a log and no handle outlives the operation.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/persistor/pkg/core"
)

// Default log file names, relative to the working directory.
const (
	DefaultAuditLog = "auditor_senial.log"
	DefaultTraceLog = "logger_senial.log"
)

// FileAuditor appends audit notes to a text log.
type FileAuditor struct {
	path string
	mu   sync.Mutex
}

// NewFileAuditor creates an auditor writing to path. An empty path means
// DefaultAuditLog.
func NewFileAuditor(path string) *FileAuditor {
	if path == "" {
		path = DefaultAuditLog
	}
	return &FileAuditor{path: path}
}

// Path returns the audit log location.
func (a *FileAuditor) Path() string { return a.path }

// Audit implements core.Auditor.
func (a *FileAuditor) Audit(entity core.Entity, note string) error {
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "audit", 0)
	rec.AddAttrs(
		slog.String("entity", describe(entity)),
		slog.String("id", idOf(entity)),
		slog.String("note", note),
	)

	a.mu.Lock()
	defer a.mu.Unlock()
	return appendRecord(a.path, rec, func(f *os.File) slog.Handler {
		return slog.NewTextHandler(f, nil)
	})
}

// FileTracer appends trace entries to a JSON-lines log. Every entry carries
// a fresh trace_id.
type FileTracer struct {
	path string
	mu   sync.Mutex
}

// NewFileTracer creates a tracer writing to path. An empty path means
// DefaultTraceLog.
func NewFileTracer(path string) *FileTracer {
	if path == "" {
		path = DefaultTraceLog
	}
	return &FileTracer{path: path}
}

// Path returns the trace log location.
func (t *FileTracer) Path() string { return t.path }

// Trace implements core.Tracer.
func (t *FileTracer) Trace(entity core.Entity, action string, message string) error {
	rec := slog.NewRecord(time.Now(), slog.LevelError, "trace", 0)
	rec.AddAttrs(
		slog.String("trace_id", uuid.NewString()),
		slog.String("action", action),
		slog.String("id", idOf(entity)),
		slog.String("entity", describe(entity)),
		slog.String("message", message),
	)

	t.mu.Lock()
	defer t.mu.Unlock()
	return appendRecord(t.path, rec, func(f *os.File) slog.Handler {
		return slog.NewJSONHandler(f, nil)
	})
}

func appendRecord(path string, rec slog.Record, handler func(*os.File) slog.Handler) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := handler(f).Handle(context.Background(), rec); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func idOf(entity core.Entity) string {
	if core.IsNil(entity) {
		return ""
	}
	return entity.EntityID()
}

func describe(entity core.Entity) string {
	if core.IsNil(entity) {
		return "<nil>"
	}
	if s, ok := entity.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", entity)
}

// AuditorFunc adapts a function to core.Auditor.
type AuditorFunc func(entity core.Entity, note string) error

// Audit implements core.Auditor.
func (f AuditorFunc) Audit(entity core.Entity, note string) error {
	return f(entity, note)
}

// TracerFunc adapts a function to core.Tracer.
type TracerFunc func(entity core.Entity, action string, message string) error

// Trace implements core.Tracer.
func (f TracerFunc) Trace(entity core.Entity, action string, message string) error {
	return f(entity, action, message)
}

var (
	_ core.Auditor = (*FileAuditor)(nil)
	_ core.Tracer  = (*FileTracer)(nil)
	_ core.Auditor = AuditorFunc(nil)
	_ core.Tracer  = TracerFunc(nil)
)
