package persistor

import (
	"log/slog"

	"github.com/aretw0/persistor/internal/platform"
	"github.com/aretw0/persistor/pkg/core"
	"github.com/aretw0/persistor/pkg/registry"
	"github.com/aretw0/persistor/pkg/supervisor"
	"github.com/aretw0/persistor/pkg/typed"
)

// --- Types ---

// Entity is a public alias for core.Entity.
type Entity = core.Entity

// Context is a public alias for core.Context.
type Context = core.Context

// Repository is a public alias for core.Repository.
type Repository = core.Repository

// Auditor is a public alias for core.Auditor.
type Auditor = core.Auditor

// Tracer is a public alias for core.Tracer.
type Tracer = core.Tracer

// TypedRepository is a public alias for the generic typed repository.
type TypedRepository[T Entity] = typed.Repository[T]

// Config is a public alias for a loaded configuration file.
type Config = platform.Config

// --- Configuration ---

// Option configures context construction.
type Option = platform.Option

// RepositoryOption configures a repository.
type RepositoryOption = core.RepositoryOption

// WithLogger sets the logger handed to the context.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRegistry sets the type registry used by text contexts.
func WithRegistry(reg *registry.Registry) Option {
	return platform.WithRegistry(reg)
}

// WithAuditor brackets every successful repository operation with audit notes.
func WithAuditor(a Auditor) RepositoryOption {
	return core.WithAuditor(a)
}

// WithTracer records a trace entry for every failed repository operation.
func WithTracer(t Tracer) RepositoryOption {
	return core.WithTracer(t)
}

// WithRepositoryLogger sets the logger used to report supervision failures.
func WithRepositoryLogger(logger *slog.Logger) RepositoryOption {
	return core.WithLogger(logger)
}

// --- Factory ---

// NewContext builds a Context of the given kind ("binary" or "text", or the
// aliases "pickle" and "archivo"). config["resource"] names the directory.
func NewContext(kind string, config map[string]string, opts ...Option) (Context, error) {
	return platform.NewContext(kind, config, opts...)
}

// NewRepository creates a repository over ctx.
func NewRepository(ctx Context, opts ...RepositoryOption) *core.EntityRepository {
	return core.NewRepository(ctx, opts...)
}

// LoadConfig reads a YAML or JSON configuration file.
func LoadConfig(path string) (*Config, error) {
	return platform.LoadConfig(path)
}

// Open builds the repository for the named context of cfg.
func Open(cfg *Config, name string, opts ...Option) (*core.EntityRepository, error) {
	return platform.NewRepository(cfg, name, opts...)
}

// NewTyped wraps repo with type-safe access to entities of type T.
func NewTyped[T Entity](repo Repository) *TypedRepository[T] {
	return typed.NewRepository[T](repo)
}

// --- Supervision ---

// NewFileAuditor returns an auditor appending to path ("" for the default log).
func NewFileAuditor(path string) *supervisor.FileAuditor {
	return supervisor.NewFileAuditor(path)
}

// NewFileTracer returns a tracer appending to path ("" for the default log).
func NewFileTracer(path string) *supervisor.FileTracer {
	return supervisor.NewFileTracer(path)
}

// --- Registry ---

// Register binds tag to factory in the process-wide registry.
func Register(tag string, factory func() Entity) {
	registry.Register(tag, factory)
}
