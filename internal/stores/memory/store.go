// Package memory keeps saved cartoons in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/core"
)

// Store is an in-memory core.CartoonStore.
type Store struct {
	mu       sync.RWMutex
	cartoons map[string]*core.Cartoon
}

var _ core.CartoonStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{cartoons: map[string]*core.Cartoon{}}
}

// List implements core.CartoonStore.
func (s *Store) List(ctx context.Context) ([]*core.Cartoon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Cartoon, 0, len(s.cartoons))
	for _, c := range s.cartoons {
		out = append(out, c.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get implements core.CartoonStore.
func (s *Store) Get(ctx context.Context, id string) (*core.Cartoon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cartoons[id]
	if !ok {
		logrus.WithField("cartoon_id", id).Warn("Cartoon not found")
		return nil, fmt.Errorf("cartoon %s: %w", id, core.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// Save implements core.CartoonStore.
func (s *Store) Save(ctx context.Context, c *core.Cartoon) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	if prev, ok := s.cartoons[c.ID]; ok {
		c.CreatedAt = prev.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	cp := *c
	s.cartoons[c.ID] = &cp
	logrus.WithFields(logrus.Fields{
		"cartoon_id": c.ID,
		"layers":     len(c.Layers),
	}).Info("Cartoon saved")
	return c.ID, nil
}

// Delete implements core.CartoonStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cartoons, id)
	return nil
}
