// Package core defines the persistence contracts shared by every adapter.
package core

// Entity is any domain value with a stable, caller-assigned identifier.
// The persistence layer treats entities as opaque beyond their identifier,
// their type tag and the fields they expose to the text mapper.
type Entity interface {
	EntityID() string
}

// IdentitySetter is implemented by entities that do not persist their
// identifier as a field. Contexts call SetEntityID after a successful
// Recover so the record name becomes the identifier again.
type IdentitySetter interface {
	SetEntityID(id string)
}

// TypeTagger lets an entity declare the tag stored in text records.
// Without it, the tag is looked up in the type registry and falls back to
// the Go fully-qualified type name.
type TypeTagger interface {
	TypeTag() string
}

// Ref stands in for an entity that is not available yet, e.g. while a
// Get is in flight without a template. It is what auditors and tracers
// receive in that case.
type Ref struct {
	ID string
}

// EntityID implements Entity.
func (r Ref) EntityID() string { return r.ID }

func (r Ref) String() string { return "ref(" + r.ID + ")" }

// EventType classifies a change to a stored record.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// RecordEvent reports a change to one record in a resource directory.
type RecordEvent struct {
	Type      EventType
	ID        string
	Format    string // "binary" or "text"
	Timestamp int64  // Unix timestamp
}

func (e RecordEvent) String() string {
	return string(e.Type) + " " + e.Format + ":" + e.ID
}
