package fs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/persistor/pkg/core"
	"github.com/aretw0/persistor/pkg/mapper"
	"github.com/aretw0/persistor/pkg/registry"
)

// TextContext stores entities as human-readable records (see package mapper
// for the format). The first line carries the type tag, which Recover resolves
// through the registry when no template is given.
type TextContext struct {
	*resource
	mapper   *mapper.Mapper
	registry *registry.Registry
}

// NewTextContext creates a text context owning config.Path.
func NewTextContext(config Config) (*TextContext, error) {
	res, err := newResource(config, TextExt)
	if err != nil {
		return nil, err
	}
	reg := config.Registry
	if reg == nil {
		reg = registry.Default
	}
	return &TextContext{
		resource: res,
		mapper:   mapper.New(),
		registry: reg,
	}, nil
}

// Persist writes entity to {resource}/{id}.dat.
//
// Workflow:
//  1. Resolve the type tag (TypeTag, registry reverse lookup, Go type name).
//  2. Encode scalar and collection fields with the mapper.
//  3. Write the tag line followed by the mapper output atomically.
func (c *TextContext) Persist(entity core.Entity, id string) (err error) {
	defer func() { c.record(true, err) }()

	path, err := c.filename("persist", id)
	if err != nil {
		return err
	}
	if core.IsNil(entity) {
		return &core.ValidationError{Op: "persist", ID: id, Reason: "entity is nil"}
	}

	tag := c.registry.TagFor(entity)
	if tag == "" || strings.ContainsAny(tag, "\r\n") {
		return &core.ValidationError{Op: "persist", ID: id, Reason: fmt.Sprintf("invalid type tag %q", tag)}
	}

	header, body, err := c.mapper.Encode(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", id, err)
	}

	content := mapper.ClassPrefix + tag + "\n" + header + body
	if err := c.write(path, []byte(content)); err != nil {
		return err
	}

	c.logger.Debug("persisted text record", "id", id, "path", path, "tag", tag)
	return nil
}

// Recover reads {resource}/{id}.dat into a new instance.
//
// Workflow:
//  1. Read and parse the record (ResourceNotFoundError if absent).
//  2. Without a template, build an instance from the registered tag.
//     With a template, check its tag against the stored one and build a
//     fresh instance of the template's type; the template is not modified.
//  3. Assign the stored fields and restore the identifier.
func (c *TextContext) Recover(id string, template core.Entity) (entity core.Entity, err error) {
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

	rec, err := mapper.Parse(string(data))
	if err != nil {
		return nil, &core.DecodeError{ID: id, Reason: "malformed text record", Err: err}
	}

	instance, err := c.instanceFor(id, rec.Tag, template)
	if err != nil {
		return nil, err
	}
	if err := c.mapper.Apply(instance, rec); err != nil {
		return nil, &core.DecodeError{ID: id, Tag: rec.Tag, Reason: "cannot assign fields", Err: err}
	}
	restoreID(instance, id)

	c.logger.Debug("recovered text record", "id", id, "path", path, "tag", rec.Tag)
	return instance, nil
}

func (c *TextContext) instanceFor(id, tag string, template core.Entity) (core.Entity, error) {
	if template == nil {
		if tag == "" {
			return nil, &core.DecodeError{ID: id, Reason: "record has no type tag and no template was given"}
		}
		factory, ok := c.registry.Resolve(tag)
		if !ok {
			return nil, &core.DecodeError{ID: id, Tag: tag, Reason: "unregistered type"}
		}
		return factory(), nil
	}

	// Legacy records without a tag line are trusted to match the template.
	want := c.registry.TagFor(template)
	if tag != "" && tag != want {
		return nil, &core.DecodeError{ID: id, Tag: tag, Reason: fmt.Sprintf("stored type does not match template type %s", want)}
	}
	if factory, ok := c.registry.Resolve(want); ok {
		return factory(), nil
	}

	t := reflect.TypeOf(template)
	if t.Kind() != reflect.Pointer {
		return nil, &core.DecodeError{ID: id, Tag: tag, Reason: fmt.Sprintf("template %T must be a pointer", template)}
	}
	instance, ok := reflect.New(t.Elem()).Interface().(core.Entity)
	if !ok {
		return nil, &core.DecodeError{ID: id, Tag: tag, Reason: fmt.Sprintf("template %T cannot be instantiated", template)}
	}
	return instance, nil
}

var _ core.Context = (*TextContext)(nil)
