// Package filesystem saves cartoons as JSON files in a directory.
package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/core"
)

const ext = ".json"

// Store is a directory-backed core.CartoonStore. Each cartoon lives in
// <basePath>/<id>.json.
type Store struct {
	basePath string
}

var _ core.CartoonStore = (*Store)(nil)

// NewStore creates basePath if needed.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// path resolves id to a file inside basePath, rejecting anything that would
// escape it.
func (s *Store) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid cartoon id %q", id)
	}
	base, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", err
	}
	p, err := filepath.Abs(filepath.Join(base, id+ext))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(p, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid path: access denied")
	}
	return p, nil
}

// List implements core.CartoonStore.
func (s *Store) List(ctx context.Context) ([]*core.Cartoon, error) {
	log := logrus.WithField("path", s.basePath)
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*core.Cartoon{}, nil
		}
		log.WithError(err).Error("Failed to read storage directory")
		return nil, err
	}
	out := make([]*core.Cartoon, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		c, err := s.read(filepath.Join(s.basePath, e.Name()))
		if err != nil {
			log.WithError(err).Warnf("Skipping unreadable cartoon file %s", e.Name())
			continue
		}
		out = append(out, c.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) read(p string) (*core.Cartoon, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var c core.Cartoon
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(p), err)
	}
	return &c, nil
}

// Get implements core.CartoonStore.
func (s *Store) Get(ctx context.Context, id string) (*core.Cartoon, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	c, err := s.read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logrus.WithField("cartoon_id", id).Warn("Cartoon file not found")
			return nil, fmt.Errorf("cartoon %s: %w", id, core.ErrNotFound)
		}
		logrus.WithError(err).WithField("cartoon_id", id).Error("Failed to read cartoon")
		return nil, err
	}
	return c, nil
}

// Save implements core.CartoonStore. The file is written to a temporary
// name and renamed into place.
func (s *Store) Save(ctx context.Context, c *core.Cartoon) (string, error) {
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	p, err := s.path(c.ID)
	if err != nil {
		return "", err
	}
	log := logrus.WithFields(logrus.Fields{"cartoon_id": c.ID, "path": p})
	now := time.Now()
	if prev, err := s.read(p); err == nil {
		c.CreatedAt = prev.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	data, err := json.Marshal(c)
	if err != nil {
		log.WithError(err).Error("Failed to marshal cartoon")
		return "", err
	}
	tmp, err := os.CreateTemp(s.basePath, ".cartoon-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		log.WithError(err).Error("Failed to write cartoon file")
		return "", err
	}
	log.Info("Cartoon saved")
	return c.ID, nil
}

// Delete implements core.CartoonStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("cartoon_id", id).Error("Failed to delete cartoon file")
		return err
	}
	return nil
}
