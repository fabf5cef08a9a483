// Package fs implements core.Context on the local filesystem.
//
// Two strategies share the same resource handling: BinaryContext stores gob
// streams in "{id}.pickle" files, TextContext stores human-readable records
// in "{id}.dat" files. Each context owns one resource directory, created on
// construction, and maps every id to exactly one file in it.
package fs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/persistor/pkg/core"
	"github.com/aretw0/persistor/pkg/registry"
)

// Record file extensions.
const (
	BinaryExt = ".pickle"
	TextExt   = ".dat"
)

// Config holds the configuration shared by both contexts.
type Config struct {
	// Path is the resource directory. It is created if missing.
	Path string
	// Logger receives debug lines for every operation. Nil disables logging.
	Logger *slog.Logger
	// Registry resolves type tags (text context only). Nil means registry.Default.
	Registry *registry.Registry
}

// resource is the directory half of a context: id validation, file naming,
// reads, atomic writes and operation counters.
type resource struct {
	path   string
	ext    string
	logger *slog.Logger

	mu       sync.Mutex
	persists int
	recovers int
	failures int
}

func newResource(config Config, ext string) (*resource, error) {
	if strings.TrimSpace(config.Path) == "" {
		return nil, &core.ValidationError{Op: "open context", Reason: "resource path is empty"}
	}
	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create resource directory: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &resource{
		path:   config.Path,
		ext:    ext,
		logger: logger,
	}, nil
}

// Resource returns the directory owned by the context.
func (r *resource) Resource() string {
	return r.path
}

// filename maps id to its record path. Ids must name a single file inside the
// resource directory.
func (r *resource) filename(op, id string) (string, error) {
	switch {
	case id == "":
		return "", &core.ValidationError{Op: op, Reason: "identifier is empty"}
	case id == "." || id == "..":
		return "", &core.ValidationError{Op: op, ID: id, Reason: "identifier is a relative path element"}
	case strings.ContainsAny(id, `/\`+"\x00") || strings.ContainsRune(id, os.PathSeparator):
		return "", &core.ValidationError{Op: op, ID: id, Reason: "identifier contains a path separator"}
	case isTempFile(id):
		return "", &core.ValidationError{Op: op, ID: id, Reason: "identifier uses the reserved temp prefix"}
	}
	return filepath.Join(r.path, id+r.ext), nil
}

func (r *resource) write(path string, data []byte) error {
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (r *resource) read(id, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &core.ResourceNotFoundError{ID: id, Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	return data, nil
}

// record updates the counters reported by State. Not-found recoveries are
// not failures.
func (r *resource) record(persist bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if persist {
		r.persists++
	} else {
		r.recovers++
	}
	var nf *core.ResourceNotFoundError
	if err != nil && !errors.As(err, &nf) {
		r.failures++
	}
}

// restoreID hands the record name back to entities that do not store it.
func restoreID(entity core.Entity, id string) {
	if s, ok := entity.(core.IdentitySetter); ok {
		s.SetEntityID(id)
	}
}
