package history

import (
	"testing"

	"github.com/example/cartoonlab/internal/raster"
)

func entry(id string, b byte) Entry {
	return Entry{LayerID: id, Snapshot: raster.Snapshot{b}}
}

func TestUndoRedoSequence(t *testing.T) {
	m := New(DefaultCapacity)
	m.Push(entry("a", 0))
	if m.CanUndo() {
		t.Fatalf("single entry must not be undoable")
	}
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo with one entry succeeded")
	}
	m.Push(entry("a", 1))
	m.Push(entry("a", 2))

	e, ok := m.Undo()
	if !ok || e.Snapshot[0] != 1 {
		t.Fatalf("undo returned %v %v", e, ok)
	}
	e, ok = m.Undo()
	if !ok || e.Snapshot[0] != 0 {
		t.Fatalf("second undo returned %v %v", e, ok)
	}
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo past initial state")
	}
	e, ok = m.Redo()
	if !ok || e.Snapshot[0] != 1 {
		t.Fatalf("redo returned %v %v", e, ok)
	}
	m.Push(entry("a", 9))
	if m.CanRedo() {
		t.Fatalf("push did not clear redo")
	}
	if _, ok := m.Redo(); ok {
		t.Fatalf("redo after push succeeded")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	m := New(3)
	for i := 0; i < 5; i++ {
		m.Push(entry("a", byte(i)))
	}
	if u, _ := m.Len(); u != 3 {
		t.Fatalf("undo depth %d", u)
	}
	m.Undo()
	e, _ := m.Undo()
	if e.Snapshot[0] != 2 {
		t.Fatalf("oldest surviving entry = %d, want 2", e.Snapshot[0])
	}
	if m.CanUndo() {
		t.Fatalf("undo beyond capacity")
	}
}

func TestDefaultCapacityKeepsLatestFifty(t *testing.T) {
	m := New(0)
	if m.Capacity() != DefaultCapacity {
		t.Fatalf("capacity %d", m.Capacity())
	}
	for i := 0; i < 60; i++ {
		m.Push(entry("a", byte(i)))
	}
	if u, _ := m.Len(); u != 50 {
		t.Fatalf("undo depth %d, want 50", u)
	}
	if e, _ := m.Current(); e.Snapshot[0] != 59 {
		t.Fatalf("current = %d, want 59", e.Snapshot[0])
	}
	var last Entry
	undos := 0
	for {
		e, ok := m.Undo()
		if !ok {
			break
		}
		last = e
		undos++
	}
	if undos != 49 || last.Snapshot[0] != 10 {
		t.Fatalf("undid %d times to %d, want 49 times to 10", undos, last.Snapshot[0])
	}
}

func TestSeqIncreases(t *testing.T) {
	m := New(2)
	a := m.Push(entry("a", 0))
	b := m.Push(entry("a", 1))
	if b.Seq <= a.Seq {
		t.Fatalf("seq not increasing: %d %d", a.Seq, b.Seq)
	}
}

func TestBookScopes(t *testing.T) {
	g := NewBook(ScopeGlobal, 10)
	if g.Manager("a") != g.Manager("b") {
		t.Fatalf("global scope must share one manager")
	}
	g.Track(entry("a", 0))
	g.Track(entry("b", 1))
	if u, _ := g.Manager("a").Len(); u != 1 {
		t.Fatalf("global track seeded %d entries", u)
	}

	l := NewBook(ScopeLayer, 10)
	if l.Manager("a") == l.Manager("b") {
		t.Fatalf("layer scope must separate managers")
	}
	l.Track(entry("a", 0))
	l.Manager("a").Push(entry("a", 1))
	if l.Manager("b").CanUndo() {
		t.Fatalf("layer b inherited layer a history")
	}
	l.Forget("a")
	if u, _ := l.Manager("a").Len(); u != 0 {
		t.Fatalf("forgotten history still present")
	}
}

func TestParseScope(t *testing.T) {
	if s, err := ParseScope("layer"); err != nil || s != ScopeLayer {
		t.Fatalf("parse layer: %v %v", s, err)
	}
	if _, err := ParseScope("bogus"); err == nil {
		t.Fatalf("expected error")
	}
}
