package fs

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"reflect"

	"github.com/aretw0/persistor/pkg/core"
)

// BinaryContext stores entities as gob streams.
//
// The entity is encoded through a core.Entity interface value, so the stream
// carries the concrete type name and Recover needs no template. Decoding in a
// process requires the type to be known to gob: Persist registers it, and so
// does registry.Register during startup.
type BinaryContext struct {
	*resource
}

// NewBinaryContext creates a binary context owning config.Path.
func NewBinaryContext(config Config) (*BinaryContext, error) {
	res, err := newResource(config, BinaryExt)
	if err != nil {
		return nil, err
	}
	return &BinaryContext{resource: res}, nil
}

// Persist writes entity to {resource}/{id}.pickle.
func (c *BinaryContext) Persist(entity core.Entity, id string) (err error) {
	defer func() { c.record(true, err) }()

	path, err := c.filename("persist", id)
	if err != nil {
		return err
	}
	if core.IsNil(entity) {
		return &core.ValidationError{Op: "persist", ID: id, Reason: "entity is nil"}
	}

	gob.Register(entity)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&entity); err != nil {
		return fmt.Errorf("failed to encode %q: %w", id, err)
	}
	if err := c.write(path, buf.Bytes()); err != nil {
		return err
	}

	c.logger.Debug("persisted binary record", "id", id, "path", path, "bytes", buf.Len())
	return nil
}

// Recover decodes {resource}/{id}.pickle. A non-nil template only constrains
// the expected type; the stream itself determines the returned value.
func (c *BinaryContext) Recover(id string, template core.Entity) (entity core.Entity, err error) {
	defer func() { c.record(false, err) }()

	path, err := c.filename("recover", id)
	if err != nil {
		return nil, err
	}
	if core.IsNil(template) {
		template = nil
	}
	data, err := c.read(id, path)
	if err != nil {
		return nil, err
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entity); err != nil {
		return nil, &core.DecodeError{ID: id, Reason: "corrupt binary record", Err: err}
	}
	if core.IsNil(entity) {
		return nil, &core.DecodeError{ID: id, Reason: "binary record holds no entity"}
	}
	if template != nil && reflect.TypeOf(entity) != reflect.TypeOf(template) {
		return nil, &core.DecodeError{
			ID:     id,
			Tag:    fmt.Sprintf("%T", entity),
			Reason: fmt.Sprintf("stored type does not match template %T", template),
		}
	}
	restoreID(entity, id)

	c.logger.Debug("recovered binary record", "id", id, "path", path, "type", fmt.Sprintf("%T", entity))
	return entity, nil
}

var _ core.Context = (*BinaryContext)(nil)
