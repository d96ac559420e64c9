package history

import (
	"fmt"
	"strings"
)

// Scope selects how undo history is partitioned across layers.
type Scope int

const (
	// ScopeGlobal keeps one history for the whole canvas. An undo restores
	// the recorded pixels onto whichever layer is active at the time.
	ScopeGlobal Scope = iota
	// ScopeLayer keeps an independent history per layer id.
	ScopeLayer
)

func (s Scope) String() string {
	if s == ScopeLayer {
		return "layer"
	}
	return "global"
}

// ParseScope accepts "global" or "layer".
func ParseScope(v string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "global":
		return ScopeGlobal, nil
	case "layer", "per-layer":
		return ScopeLayer, nil
	}
	return ScopeGlobal, fmt.Errorf("unknown history scope %q", v)
}

// Book hands out the Manager responsible for a layer under a scope.
type Book struct {
	scope    Scope
	capacity int
	global   *Manager
	perLayer map[string]*Manager
}

// NewBook creates a book with the given scope and per-manager capacity.
func NewBook(scope Scope, capacity int) *Book {
	return &Book{
		scope:    scope,
		capacity: capacity,
		global:   New(capacity),
		perLayer: map[string]*Manager{},
	}
}

// Scope returns the partitioning in use.
func (b *Book) Scope() Scope { return b.scope }

// Manager returns the history for layerID, creating it if needed.
func (b *Book) Manager(layerID string) *Manager {
	if b.scope == ScopeGlobal {
		return b.global
	}
	m, ok := b.perLayer[layerID]
	if !ok {
		m = New(b.capacity)
		b.perLayer[layerID] = m
	}
	return m
}

// Track seeds the history for a layer with its current state. Under global
// scope only the first call seeds; later layers share that history.
func (b *Book) Track(e Entry) {
	m := b.Manager(e.LayerID)
	if undo, _ := m.Len(); undo == 0 {
		m.Push(e)
	}
}

// Forget drops the history for layer ids that no longer exist.
func (b *Book) Forget(ids ...string) {
	for _, id := range ids {
		delete(b.perLayer, id)
	}
}

// Reset discards every history.
func (b *Book) Reset() {
	b.global = New(b.capacity)
	b.perLayer = map[string]*Manager{}
}
