package core

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	ContextType string `json:"context_type"`
	Audited     bool   `json:"audited"`
	Traced      bool   `json:"traced"`
}

// State implements introspection.Introspectable.
func (r *EntityRepository) State() any {
	ctxType := "context"
	// Prefer the component type reported by the context itself.
	if comp, ok := r.ctx.(introspection.Component); ok {
		ctxType = comp.ComponentType()
	}

	return RepositoryState{
		ContextType: ctxType,
		Audited:     r.auditor != nil,
		Traced:      r.tracer != nil,
	}
}

// ComponentType implements introspection.Component.
func (r *EntityRepository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*EntityRepository)(nil)
var _ introspection.Component = (*EntityRepository)(nil)
