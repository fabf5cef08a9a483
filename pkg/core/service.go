package core

import (
	"errors"
	"fmt"
	"log/slog"
)

// Audit notes written around repository operations.
const (
	NoteBeforePersist = "before persist"
	NotePersisted     = "persisted"
	NoteBeforeRecover = "before recover"
	NoteRecovered     = "recovered"
)

// Trace actions.
const (
	ActionSave = "save"
	ActionGet  = "get"
)

// EntityRepository implements Repository on top of a Context.
// Auditing and tracing are optional collaborators: a repository composes
// zero, one or both of them.
type EntityRepository struct {
	ctx     Context
	auditor Auditor
	tracer  Tracer
	logger  *slog.Logger
}

// RepositoryOption configures an EntityRepository.
type RepositoryOption func(*EntityRepository)

// WithAuditor brackets every successful operation with two audit notes.
func WithAuditor(a Auditor) RepositoryOption {
	return func(r *EntityRepository) {
		r.auditor = a
	}
}

// WithTracer records a trace entry whenever an operation fails.
func WithTracer(t Tracer) RepositoryOption {
	return func(r *EntityRepository) {
		r.tracer = t
	}
}

// WithLogger sets the logger used to report supervision failures.
func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(r *EntityRepository) {
		r.logger = logger
	}
}

// NewRepository creates a repository over ctx. It panics if ctx is nil.
func NewRepository(ctx Context, opts ...RepositoryOption) *EntityRepository {
	if ctx == nil {
		panic("core: NewRepository called with nil Context")
	}
	r := &EntityRepository{ctx: ctx}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Save persists the entity under its own identifier.
//
// Workflow:
//  1. Validate entity and identifier (no I/O on failure).
//  2. Audit "before persist".
//  3. Persist through the Context.
//  4. On success audit "persisted"; on failure trace the error.
//
// Context errors are returned wrapped as `save "<id>": <cause>`; the cause
// stays reachable with errors.Is and errors.As.
func (r *EntityRepository) Save(entity Entity) error {
	if IsNil(entity) {
		return &ValidationError{Op: "save", Reason: "entity is nil"}
	}
	id := entity.EntityID()
	if id == "" {
		return &ValidationError{Op: "save", Reason: "entity has no identifier"}
	}

	r.audit(entity, NoteBeforePersist)
	if err := r.ctx.Persist(entity, id); err != nil {
		r.trace(entity, ActionSave, err)
		return fmt.Errorf("save %q: %w", id, err)
	}
	r.audit(entity, NotePersisted)
	return nil
}

// Get retrieves the entity stored under id.
// A missing record is not an error: Get returns (nil, nil). Other Context
// errors are returned wrapped as `get "<id>": <cause>`. A typed nil template
// counts as no template.
func (r *EntityRepository) Get(id string, template Entity) (Entity, error) {
	if id == "" {
		return nil, &ValidationError{Op: "get", Reason: "identifier is empty"}
	}
	if IsNil(template) {
		template = nil
	}

	subject := template
	if subject == nil {
		subject = Ref{ID: id}
	}

	r.audit(subject, NoteBeforeRecover)
	entity, err := r.ctx.Recover(id, template)
	if err != nil {
		var nf *ResourceNotFoundError
		if errors.As(err, &nf) {
			r.logger.Debug("record not found", "id", id)
			return nil, nil
		}
		r.trace(subject, ActionGet, err)
		return nil, fmt.Errorf("get %q: %w", id, err)
	}
	r.audit(entity, NoteRecovered)
	return entity, nil
}

// audit and trace never mask the outcome of the operation they observe.
func (r *EntityRepository) audit(entity Entity, note string) {
	if r.auditor == nil {
		return
	}
	if err := r.auditor.Audit(entity, note); err != nil {
		r.logger.Warn("audit failed", "id", entity.EntityID(), "note", note, "error", err)
	}
}

func (r *EntityRepository) trace(entity Entity, action string, cause error) {
	if r.tracer == nil {
		return
	}
	if err := r.tracer.Trace(entity, action, cause.Error()); err != nil {
		r.logger.Warn("trace failed", "id", entity.EntityID(), "action", action, "error", err)
	}
}

var _ Repository = (*EntityRepository)(nil)
