package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/persistor/pkg/core"
)

type sample struct {
	ID     string
	Values []float64
}

func (s *sample) EntityID() string { return s.ID }

// MockContext implements core.Context in memory.
type MockContext struct {
	records    map[string]core.Entity
	persistErr error
	recoverErr error
	persists   int
	recovers   int
	onRecover  func(template core.Entity)
}

func NewMockContext() *MockContext {
	return &MockContext{records: make(map[string]core.Entity)}
}

func (m *MockContext) Persist(entity core.Entity, id string) error {
	m.persists++
	if m.persistErr != nil {
		return m.persistErr
	}
	m.records[id] = entity
	return nil
}

func (m *MockContext) Recover(id string, template core.Entity) (core.Entity, error) {
	m.recovers++
	if m.onRecover != nil {
		m.onRecover(template)
	}
	if m.recoverErr != nil {
		return nil, m.recoverErr
	}
	e, ok := m.records[id]
	if !ok {
		return nil, &core.ResourceNotFoundError{ID: id, Path: id + ".mem"}
	}
	return e, nil
}

type auditCall struct {
	id   string
	note string
}

type stubAuditor struct {
	calls []auditCall
	err   error
}

func (a *stubAuditor) Audit(entity core.Entity, note string) error {
	a.calls = append(a.calls, auditCall{id: entity.EntityID(), note: note})
	return a.err
}

type traceCall struct {
	id      string
	action  string
	message string
}

type stubTracer struct {
	calls []traceCall
}

func (t *stubTracer) Trace(entity core.Entity, action, message string) error {
	t.calls = append(t.calls, traceCall{id: entity.EntityID(), action: action, message: message})
	return nil
}

func TestRepository_Save(t *testing.T) {
	t.Run("Audit Bracketing", func(t *testing.T) {
		ctx := NewMockContext()
		auditor := &stubAuditor{}
		tracer := &stubTracer{}
		repo := core.NewRepository(ctx, core.WithAuditor(auditor), core.WithTracer(tracer))

		require.NoError(t, repo.Save(&sample{ID: "1000"}))

		assert.Equal(t, []auditCall{
			{id: "1000", note: core.NoteBeforePersist},
			{id: "1000", note: core.NotePersisted},
		}, auditor.calls)
		assert.Empty(t, tracer.calls)
		assert.Equal(t, 1, ctx.persists)
	})

	t.Run("Failure Audits Once And Traces", func(t *testing.T) {
		ctx := NewMockContext()
		ctx.persistErr = errors.New("permission denied")
		auditor := &stubAuditor{}
		tracer := &stubTracer{}
		repo := core.NewRepository(ctx, core.WithAuditor(auditor), core.WithTracer(tracer))

		err := repo.Save(&sample{ID: "1000"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ctx.persistErr)
		assert.EqualError(t, err, `save "1000": permission denied`)

		assert.Len(t, auditor.calls, 1)
		require.Len(t, tracer.calls, 1)
		assert.Equal(t, traceCall{id: "1000", action: core.ActionSave, message: "permission denied"}, tracer.calls[0])
	})

	t.Run("Validation", func(t *testing.T) {
		ctx := NewMockContext()
		auditor := &stubAuditor{}
		repo := core.NewRepository(ctx, core.WithAuditor(auditor))

		var ve *core.ValidationError
		err := repo.Save(nil)
		assert.ErrorAs(t, err, &ve)
		assert.ErrorIs(t, err, core.ErrValidation)

		err = repo.Save(&sample{})
		assert.ErrorAs(t, err, &ve)

		var typedNil *sample
		assert.NotPanics(t, func() { err = repo.Save(typedNil) })
		assert.ErrorAs(t, err, &ve)

		assert.Zero(t, ctx.persists, "validation failures must not reach the context")
		assert.Empty(t, auditor.calls)
	})

	t.Run("Auditor Errors Do Not Fail Save", func(t *testing.T) {
		ctx := NewMockContext()
		repo := core.NewRepository(ctx, core.WithAuditor(&stubAuditor{err: errors.New("disk full")}))

		assert.NoError(t, repo.Save(&sample{ID: "a"}))
		assert.Contains(t, ctx.records, "a")
	})
}

func TestRepository_Get(t *testing.T) {
	t.Run("Not Found Is Not An Error", func(t *testing.T) {
		tracer := &stubTracer{}
		repo := core.NewRepository(NewMockContext(), core.WithTracer(tracer))

		got, err := repo.Get("nonexistent-id", nil)
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.Empty(t, tracer.calls)
	})

	t.Run("Round Trip With Audit", func(t *testing.T) {
		ctx := NewMockContext()
		auditor := &stubAuditor{}
		repo := core.NewRepository(ctx, core.WithAuditor(auditor))
		original := &sample{ID: "7", Values: []float64{1, 2}}
		require.NoError(t, repo.Save(original))
		auditor.calls = nil

		got, err := repo.Get("7", nil)
		require.NoError(t, err)
		assert.Equal(t, original, got)
		assert.Equal(t, []auditCall{
			{id: "7", note: core.NoteBeforeRecover},
			{id: "7", note: core.NoteRecovered},
		}, auditor.calls)
	})

	t.Run("Decode Errors Propagate And Trace", func(t *testing.T) {
		ctx := NewMockContext()
		ctx.recoverErr = &core.DecodeError{ID: "9", Reason: "corrupt"}
		tracer := &stubTracer{}
		repo := core.NewRepository(ctx, core.WithTracer(tracer))

		got, err := repo.Get("9", nil)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, core.ErrDecode)
		var de *core.DecodeError
		assert.ErrorAs(t, err, &de)
		assert.True(t, strings.HasPrefix(err.Error(), `get "9": `))

		require.Len(t, tracer.calls, 1)
		assert.Equal(t, "9", tracer.calls[0].id)
		assert.Equal(t, core.ActionGet, tracer.calls[0].action)
	})

	t.Run("Empty ID", func(t *testing.T) {
		ctx := NewMockContext()
		repo := core.NewRepository(ctx)

		_, err := repo.Get("", nil)
		assert.ErrorIs(t, err, core.ErrValidation)
		assert.Zero(t, ctx.recovers)
	})
}

func TestRepository_GetTypedNilTemplate(t *testing.T) {
	ctx := NewMockContext()
	var captured []core.Entity
	ctx.onRecover = func(template core.Entity) { captured = append(captured, template) }
	repo := core.NewRepository(ctx)
	require.NoError(t, repo.Save(&sample{ID: "a"}))

	var template *sample
	got, err := repo.Get("a", template)
	require.NoError(t, err)
	assert.Equal(t, &sample{ID: "a"}, got)
	require.Len(t, captured, 1)
	assert.Nil(t, captured[0], "a typed nil template is passed on as no template")
}

func TestIsNil(t *testing.T) {
	var typedNil *sample
	assert.True(t, core.IsNil(nil))
	assert.True(t, core.IsNil(typedNil))
	assert.False(t, core.IsNil(&sample{}))
	assert.False(t, core.IsNil(core.Ref{ID: "x"}))
}

func TestRepository_State(t *testing.T) {
	repo := core.NewRepository(NewMockContext(), core.WithTracer(&stubTracer{}))

	state, ok := repo.State().(core.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, "context", state.ContextType)
	assert.False(t, state.Audited)
	assert.True(t, state.Traced)
	assert.Equal(t, "repository", repo.ComponentType())
}
