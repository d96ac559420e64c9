// Package sqlite stores cartoons in a SQLite database using the pure-Go
// modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/example/cartoonlab/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS cartoons (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	image BLOB,
	payload BLOB,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);`

// payload is the JSON column holding layers and frames.
type payload struct {
	Layers []core.LayerRecord `json:"layers"`
	Frames []core.FrameRecord `json:"frames,omitempty"`
}

// Store is a SQLite-backed core.CartoonStore.
type Store struct {
	db *sql.DB
}

var _ core.CartoonStore = (*Store)(nil)

// NewStore opens dataSourceName and creates the schema if needed.
func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cartoons table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// List implements core.CartoonStore.
func (s *Store) List(ctx context.Context) ([]*core.Cartoon, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, width, height, created_at, updated_at FROM cartoons ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*core.Cartoon{}
	for rows.Next() {
		var c core.Cartoon
		var created, updated int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Width, &c.Height, &created, &updated); err != nil {
			return nil, err
		}
		c.CreatedAt = time.UnixMilli(created)
		c.UpdatedAt = time.UnixMilli(updated)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Get implements core.CartoonStore.
func (s *Store) Get(ctx context.Context, id string) (*core.Cartoon, error) {
	log := logrus.WithField("cartoon_id", id)
	c := core.Cartoon{ID: id}
	var raw []byte
	var created, updated int64
	err := s.db.QueryRowContext(ctx,
		"SELECT name, width, height, image, payload, created_at, updated_at FROM cartoons WHERE id = ?", id,
	).Scan(&c.Name, &c.Width, &c.Height, &c.Image, &raw, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Cartoon not found")
			return nil, fmt.Errorf("cartoon %s: %w", id, core.ErrNotFound)
		}
		log.WithError(err).Error("Failed to retrieve cartoon")
		return nil, err
	}
	var p payload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode cartoon %s: %w", id, err)
		}
	}
	c.Layers = p.Layers
	c.Frames = p.Frames
	c.CreatedAt = time.UnixMilli(created)
	c.UpdatedAt = time.UnixMilli(updated)
	return &c, nil
}

// Save implements core.CartoonStore.
func (s *Store) Save(ctx context.Context, c *core.Cartoon) (string, error) {
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	raw, err := json.Marshal(payload{Layers: c.Layers, Frames: c.Frames})
	if err != nil {
		return "", err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	now := time.Now()
	var created int64
	err = tx.QueryRowContext(ctx, "SELECT created_at FROM cartoons WHERE id = ?", c.ID).Scan(&created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cartoons (id, name, width, height, image, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			c.ID, c.Name, c.Width, c.Height, c.Image, raw, c.CreatedAt.UnixMilli(), now.UnixMilli())
	case err == nil:
		c.CreatedAt = time.UnixMilli(created)
		_, err = tx.ExecContext(ctx,
			"UPDATE cartoons SET name = ?, width = ?, height = ?, image = ?, payload = ?, updated_at = ? WHERE id = ?",
			c.Name, c.Width, c.Height, c.Image, raw, now.UnixMilli(), c.ID)
	}
	if err != nil {
		logrus.WithError(err).WithField("cartoon_id", c.ID).Error("Failed to save cartoon")
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	c.UpdatedAt = time.UnixMilli(now.UnixMilli())
	logrus.WithField("cartoon_id", c.ID).Info("Cartoon saved")
	return c.ID, nil
}

// Delete implements core.CartoonStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cartoons WHERE id = ?", id)
	return err
}
