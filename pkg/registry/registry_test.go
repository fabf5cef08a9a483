package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/persistor/pkg/core"
	"github.com/aretw0/persistor/pkg/registry"
)

type reading struct {
	ID    string
	Value float64
}

func (r *reading) EntityID() string { return r.ID }

type tagged struct{ ID string }

func (t *tagged) EntityID() string { return t.ID }
func (t *tagged) TypeTag() string  { return "custom.Tagged" }

func TestRegistry(t *testing.T) {
	t.Run("Register And Resolve", func(t *testing.T) {
		reg := registry.New()
		reg.Register("Reading", func() core.Entity { return &reading{} })

		factory, ok := reg.Resolve("Reading")
		require.True(t, ok)
		assert.IsType(t, &reading{}, factory())

		_, ok = reg.Resolve("Missing")
		assert.False(t, ok)
	})

	t.Run("Factories Produce Fresh Instances", func(t *testing.T) {
		reg := registry.New()
		reg.Register("Reading", func() core.Entity { return &reading{} })

		factory, _ := reg.Resolve("Reading")
		a, b := factory(), factory()
		assert.NotSame(t, a, b)
	})

	t.Run("Reverse Lookup", func(t *testing.T) {
		reg := registry.New()
		reg.Register("Reading", func() core.Entity { return &reading{} })

		tag, ok := reg.TagOf(&reading{ID: "x"})
		require.True(t, ok)
		assert.Equal(t, "Reading", tag)

		_, ok = reg.TagOf(nil)
		assert.False(t, ok)
	})

	t.Run("Tags Sorted", func(t *testing.T) {
		reg := registry.New()
		reg.Register("b", func() core.Entity { return &reading{} })
		reg.Register("a", func() core.Entity { return &reading{} })
		assert.Equal(t, []string{"a", "b"}, reg.Tags())
	})

	t.Run("Invalid Registrations Panic", func(t *testing.T) {
		reg := registry.New()
		assert.Panics(t, func() { reg.Register("", func() core.Entity { return &reading{} }) })
		assert.Panics(t, func() { reg.Register("x", nil) })
		assert.Panics(t, func() { reg.Register("x", func() core.Entity { return nil }) })
	})

	t.Run("Concurrent Reads", func(t *testing.T) {
		reg := registry.New()
		for i := range 10 {
			reg.Register(fmt.Sprintf("tag-%d", i), func() core.Entity { return &reading{} })
		}

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, ok := reg.Resolve(fmt.Sprintf("tag-%d", i%10))
				assert.True(t, ok)
			}(i)
		}
		wg.Wait()
	})
}

func TestTagFor(t *testing.T) {
	reg := registry.New()
	reg.Register("Reading", func() core.Entity { return &reading{} })

	assert.Equal(t, "Reading", reg.TagFor(&reading{}))
	assert.Equal(t, "custom.Tagged", reg.TagFor(&tagged{}))
	assert.Equal(t, "github.com/aretw0/persistor/pkg/registry_test.reading", registry.TypeName(&reading{}))
	assert.Equal(t, "github.com/aretw0/persistor/pkg/core.Ref", registry.TypeName(core.Ref{ID: "1"}))
}
