package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below unwraps to one of them so callers
// can use errors.Is without knowing the concrete type.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("resource not found")
	ErrDecode           = errors.New("decode failed")
	ErrUnsupportedKind  = errors.New("unsupported context kind")
	ErrUnsupportedField = errors.New("unsupported field")
)

// ValidationError reports invalid input to Save, Get, Persist or Recover.
type ValidationError struct {
	Op     string
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q: %s", e.Op, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ResourceNotFoundError reports that no stored record exists for an id.
type ResourceNotFoundError struct {
	ID   string
	Path string
	Err  error
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("record %q not found at %s", e.ID, e.Path)
}

// Unwrap exposes both the sentinel and the underlying filesystem error.
func (e *ResourceNotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Err}
}

// DecodeError reports stored bytes that cannot be turned back into an entity:
// corrupt content, an unregistered type tag or a template of the wrong type.
type DecodeError struct {
	ID     string
	Tag    string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %q", e.ID)
	if e.Tag != "" {
		msg += fmt.Sprintf(" (type %s)", e.Tag)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

// UnsupportedKindError is returned by the context factory for unknown kinds.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported context kind %q (valid: binary, text)", e.Kind)
}

func (e *UnsupportedKindError) Unwrap() error { return ErrUnsupportedKind }

// UnsupportedFieldError is returned when a field cannot be represented in the
// text format (nested collections, maps, structs, invalid labels).
type UnsupportedFieldError struct {
	Field  string
	Type   string
	Reason string
}

func (e *UnsupportedFieldError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("field %q of type %s: %s", e.Field, e.Type, e.Reason)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *UnsupportedFieldError) Unwrap() error { return ErrUnsupportedField }
