// Package typed wraps a core.Repository with a generic, type-safe API.
package typed

import (
	"fmt"
	"reflect"

	"github.com/aretw0/persistor/pkg/core"
)

// Repository wraps a core.Repository to provide type-safe access to one
// entity type. Get passes a template of T, so text contexts can recover
// entities whose type was never registered.
type Repository[T core.Entity] struct {
	repo core.Repository
}

// NewRepository creates a new type-safe wrapper around an existing repository.
func NewRepository[T core.Entity](repo core.Repository) *Repository[T] {
	return &Repository[T]{repo: repo}
}

// Save persists entity under its own identifier.
func (r *Repository[T]) Save(entity T) error {
	return r.repo.Save(entity)
}

// Get retrieves the entity stored under id. found is false, with a nil
// error, when no record exists.
func (r *Repository[T]) Get(id string) (entity T, found bool, err error) {
	got, err := r.repo.Get(id, template[T]())
	if err != nil || got == nil {
		return entity, false, err
	}

	typed, ok := got.(T)
	if !ok {
		return entity, false, &core.DecodeError{
			ID:     id,
			Tag:    fmt.Sprintf("%T", got),
			Reason: fmt.Sprintf("expected %T", entity),
		}
	}
	return typed, true, nil
}

// template returns a fresh *E when T is *E, or the zero T otherwise.
func template[T core.Entity]() T {
	var zero T
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Pointer {
		return reflect.New(rt.Elem()).Interface().(T)
	}
	return zero
}
