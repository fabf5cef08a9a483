package fs

import (
	"github.com/aretw0/introspection"
)

// ContextState exposes internal state for observability.
type ContextState struct {
	Kind      string   `json:"kind"`
	Resource  string   `json:"resource"`
	Extension string   `json:"extension"`
	Persists  int      `json:"persists"`
	Recovers  int      `json:"recovers"`
	Failures  int      `json:"failures"`
	Tags      []string `json:"registered_tags,omitempty"`
}

func (r *resource) state(kind string) ContextState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ContextState{
		Kind:      kind,
		Resource:  r.path,
		Extension: r.ext,
		Persists:  r.persists,
		Recovers:  r.recovers,
		Failures:  r.failures,
	}
}

// State implements introspection.Introspectable.
func (c *BinaryContext) State() any {
	return c.state("binary")
}

// ComponentType implements introspection.Component.
func (c *BinaryContext) ComponentType() string {
	return "binary-context"
}

// State implements introspection.Introspectable.
func (c *TextContext) State() any {
	s := c.state("text")
	s.Tags = c.registry.Tags()
	return s
}

// ComponentType implements introspection.Component.
func (c *TextContext) ComponentType() string {
	return "text-context"
}

var _ introspection.Introspectable = (*BinaryContext)(nil)
var _ introspection.Component = (*BinaryContext)(nil)
var _ introspection.Introspectable = (*TextContext)(nil)
var _ introspection.Component = (*TextContext)(nil)
