package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/promptvision/internal/params"
)

func set(t *testing.T, brightness float64) params.Set {
	t.Helper()
	s, _ := params.Defaults().With(params.Brightness, brightness)
	return s
}

func TestUndoRedoAreInverse(t *testing.T) {
	m := New(0)
	a, b := set(t, 1.0), set(t, 1.5)

	m.Record(a)
	current := b

	prev, ok := m.Undo(current)
	require.True(t, ok)
	assert.Equal(t, a, prev)

	next, ok := m.Redo(prev)
	require.True(t, ok)
	assert.Equal(t, b, next)

	undo, redo := m.Len()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 0, redo)
}

func TestEmptyStacks(t *testing.T) {
	m := New(0)
	current := set(t, 2)

	got, ok := m.Undo(current)
	assert.False(t, ok)
	assert.Equal(t, current, got)

	got, ok = m.Redo(current)
	assert.False(t, ok)
	assert.Equal(t, current, got)

	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestRecordClearsRedo(t *testing.T) {
	m := New(0)
	a, b, c := set(t, 1), set(t, 1.25), set(t, 0.5)

	m.Record(a)
	prev, _ := m.Undo(b)
	require.True(t, m.CanRedo())

	m.Record(prev)
	assert.False(t, m.CanRedo())

	_, ok := m.Redo(c)
	assert.False(t, ok)
}

func TestMultiStepTraversal(t *testing.T) {
	m := New(0)
	states := []params.Set{set(t, 1), set(t, 1.25), set(t, 1.5), set(t, 1.75)}

	current := states[0]
	for _, s := range states[1:] {
		m.Record(current)
		current = s
	}

	for i := len(states) - 2; i >= 0; i-- {
		var ok bool
		current, ok = m.Undo(current)
		require.True(t, ok)
		assert.Equal(t, states[i], current)
	}
	assert.False(t, m.CanUndo())

	for i := 1; i < len(states); i++ {
		var ok bool
		current, ok = m.Redo(current)
		require.True(t, ok)
		assert.Equal(t, states[i], current)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	m := New(2)
	m.Record(set(t, 1))
	m.Record(set(t, 1.25))
	m.Record(set(t, 1.5))

	undo, _ := m.Len()
	require.Equal(t, 2, undo)

	current := set(t, 1.75)
	current, _ = m.Undo(current)
	assert.Equal(t, set(t, 1.5), current)
	current, _ = m.Undo(current)
	assert.Equal(t, set(t, 1.25), current)
	_, ok := m.Undo(current)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	m := New(0)
	m.Record(set(t, 1))
	m.Undo(set(t, 2))
	m.Record(set(t, 3))

	m.Clear()
	undo, redo := m.Len()
	assert.Zero(t, undo)
	assert.Zero(t, redo)
}

func TestSnapshotsAreCopies(t *testing.T) {
	m := New(0)
	s := set(t, 1.5)
	m.Record(s)

	s, _ = s.With(params.Brightness, 3)
	prev, _ := m.Undo(s)
	assert.Equal(t, 1.5, prev.Value(params.Brightness))
}
