// Package history keeps bounded undo/redo stacks of layer snapshots.
package history

import (
	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/raster"
)

// DefaultCapacity is the number of undo entries kept before the oldest is
// evicted.
const DefaultCapacity = 50

// Entry is one recorded layer state.
type Entry struct {
	LayerID  string
	Seq      uint64
	Snapshot raster.Snapshot
}

// Manager is a linear undo/redo history. The top of the undo stack is
// always the current state, so undo needs at least two entries.
type Manager struct {
	capacity int
	undo     []Entry
	redo     []Entry
	seq      uint64
}

// New creates a manager holding at most capacity undo entries.
func New(capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{capacity: capacity}
}

// Capacity returns the undo bound.
func (m *Manager) Capacity() int { return m.capacity }

// Push records a new current state and discards the redo stack.
func (m *Manager) Push(e Entry) Entry {
	m.seq++
	e.Seq = m.seq
	m.undo = append(m.undo, e)
	if len(m.undo) > m.capacity {
		logrus.WithFields(logrus.Fields{
			"layer_id": m.undo[0].LayerID,
			"seq":      m.undo[0].Seq,
		}).Debug("history entry evicted")
		m.undo = append(m.undo[:0:0], m.undo[1:]...)
	}
	m.redo = nil
	return e
}

// Undo moves the current state onto the redo stack and returns the state
// to restore. It reports false when there is nothing to undo.
func (m *Manager) Undo() (Entry, bool) {
	if !m.CanUndo() {
		return Entry{}, false
	}
	top := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, top)
	return m.undo[len(m.undo)-1], true
}

// Redo re-applies the most recently undone state.
func (m *Manager) Redo() (Entry, bool) {
	if !m.CanRedo() {
		return Entry{}, false
	}
	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, e)
	return e, true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool { return len(m.undo) >= 2 }

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the undo and redo stack depths.
func (m *Manager) Len() (undo, redo int) { return len(m.undo), len(m.redo) }

// Current returns the top of the undo stack.
func (m *Manager) Current() (Entry, bool) {
	if len(m.undo) == 0 {
		return Entry{}, false
	}
	return m.undo[len(m.undo)-1], true
}

// Reset clears both stacks and seeds the undo stack with initial.
func (m *Manager) Reset(initial Entry) {
	m.undo = nil
	m.redo = nil
	m.Push(initial)
}
