// Package registry maps stored type tags to constructors.
//
// Text records carry the tag of the entity they were written from. Recovering
// a record without a template needs a way back from that tag to an empty
// instance of the right type; this package provides it without any "import by
// name" mechanism.
//
// Lifecycle: the package that owns the concrete entity types registers them
// during startup (typically from an init function). After that the registry
// is only read, and reads are safe from any goroutine.
package registry

import (
	"encoding/gob"
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/persistor/pkg/core"
)

// Factory produces an empty, ready-to-decode instance of a registered type.
type Factory func() core.Entity

// Registry is a concurrency-safe tag -> factory table.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	tags      map[reflect.Type]string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		tags:      make(map[reflect.Type]string),
	}
}

// Default is the process-wide registry used when none is configured.
var Default = New()

// Register associates tag with factory, replacing any previous entry.
// The produced type is also registered with encoding/gob so binary records
// can be decoded in processes that never persisted that type.
//
// Register panics if tag is empty or factory is nil or returns nil.
func (r *Registry) Register(tag string, factory Factory) {
	if tag == "" {
		panic("registry: Register with empty tag")
	}
	if factory == nil {
		panic("registry: Register with nil factory for " + tag)
	}
	sample := factory()
	if sample == nil {
		panic("registry: factory for " + tag + " returned nil")
	}
	gob.Register(sample)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[tag] = factory
	r.tags[reflect.TypeOf(sample)] = tag
}

// Resolve returns the factory registered for tag.
func (r *Registry) Resolve(tag string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[tag]
	return f, ok
}

// TagOf returns the tag under which the dynamic type of entity was registered.
func (r *Registry) TagOf(entity core.Entity) (string, bool) {
	if entity == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.tags[reflect.TypeOf(entity)]
	return tag, ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Register adds an entry to the Default registry.
func Register(tag string, factory Factory) { Default.Register(tag, factory) }

// Resolve looks tag up in the Default registry.
func Resolve(tag string) (Factory, bool) { return Default.Resolve(tag) }

// TagOf looks entity up in the Default registry.
func TagOf(entity core.Entity) (string, bool) { return Default.TagOf(entity) }

// TypeName returns the Go fully-qualified name of the dynamic type of entity,
// e.g. "github.com/acme/signal.Signal". Pointers are dereferenced.
func TypeName(entity core.Entity) string {
	t := reflect.TypeOf(entity)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// TagFor resolves the tag to store for entity: its own TypeTag, then the
// registry's reverse lookup, then TypeName.
func (r *Registry) TagFor(entity core.Entity) string {
	if tt, ok := entity.(core.TypeTagger); ok {
		if tag := tt.TypeTag(); tag != "" {
			return tag
		}
	}
	if tag, ok := r.TagOf(entity); ok {
		return tag
	}
	return TypeName(entity)
}
