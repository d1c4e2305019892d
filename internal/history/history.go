// Package history keeps the undo and redo stacks of parameter snapshots.
package history

import "github.com/ironsheep/promptvision/internal/params"

// Manager holds two stacks of params.Set snapshots.
//
// The undo stack is ordered oldest first. The redo stack holds the states that
// were undone, most recent last. Because params.Set is a value type every entry
// is an independent copy.
//
// Manager is not safe for concurrent use.
type Manager struct {
	undo  []params.Set
	redo  []params.Set
	limit int
}

// New creates a Manager. A limit of zero or less keeps every snapshot;
// otherwise the oldest undo entries are dropped once limit is exceeded.
func New(limit int) *Manager {
	if limit < 0 {
		limit = 0
	}
	return &Manager{limit: limit}
}

// Record pushes the state that is about to be replaced and clears the redo
// stack. Call it before every mutation, never before Undo or Redo.
func (m *Manager) Record(current params.Set) {
	m.undo = append(m.undo, current)
	if m.limit > 0 && len(m.undo) > m.limit {
		// Evict oldest
		drop := len(m.undo) - m.limit
		m.undo = append(m.undo[:0], m.undo[drop:]...)
	}
	m.redo = m.redo[:0]
}

// Undo moves one step back. current is pushed onto the redo stack and the
// previous state is returned. ok is false, and nothing changes, when there is
// nothing to undo.
func (m *Manager) Undo(current params.Set) (prev params.Set, ok bool) {
	if len(m.undo) == 0 {
		return current, false
	}
	prev = m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, current)
	return prev, true
}

// Redo mirrors Undo.
func (m *Manager) Redo(current params.Set) (next params.Set, ok bool) {
	if len(m.redo) == 0 {
		return current, false
	}
	next = m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, current)
	return next, true
}

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (m *Manager) Len() (undo, redo int) { return len(m.undo), len(m.redo) }
