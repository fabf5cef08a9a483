package core

// Context is a storage strategy owning one resource directory.
// Implementations write exactly one record per Persist and read exactly one
// per Recover. Operations are blocking local file I/O and take no
// context.Context: there is nothing to cancel.
type Context interface {
	// Persist stores the entity under id, replacing any previous record.
	Persist(entity Entity, id string) error

	// Recover rebuilds the entity stored under id.
	// template may be nil when the concrete type can be resolved from the
	// stored record. A missing record yields *ResourceNotFoundError.
	Recover(id string, template Entity) (Entity, error)
}

// Repository is the domain-facing contract. It is the only persistence
// interface the rest of an application should depend on.
type Repository interface {
	// Save persists the entity under its own identifier.
	Save(entity Entity) error

	// Get returns the entity stored under id, or (nil, nil) if there is none.
	Get(id string, template Entity) (Entity, error)
}

// Auditor records human-readable notes about repository operations.
type Auditor interface {
	Audit(entity Entity, note string) error
}

// Tracer records structured entries for failed repository operations.
type Tracer interface {
	Trace(entity Entity, action string, message string) error
}
