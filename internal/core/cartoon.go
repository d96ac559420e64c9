// Package core defines the persisted form of a cartoon and the store
// interface the save backends implement.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by stores when no cartoon has the requested id.
var ErrNotFound = errors.New("cartoon not found")

type (
	// LayerRecord is one layer's attributes and PNG pixels.
	LayerRecord struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Visible bool    `json:"visible"`
		Opacity float64 `json:"opacity"`
		Blend   string  `json:"blend"`
		Data    []byte  `json:"data"`
	}

	// FrameLayer is one layer's pixels as captured by a frame.
	FrameLayer struct {
		LayerID string `json:"layerId"`
		Data    []byte `json:"data"`
	}

	// FrameRecord is one saved animation frame.
	FrameRecord struct {
		Name       string       `json:"name"`
		DurationMs int64        `json:"durationMs"`
		Stale      bool         `json:"stale,omitempty"`
		Layers     []FrameLayer `json:"layers"`
	}

	// Cartoon is a saved drawing: the flattened image plus everything
	// needed to reopen it for editing.
	Cartoon struct {
		ID        string        `json:"id"`
		Name      string        `json:"name"`
		Width     int           `json:"width"`
		Height    int           `json:"height"`
		Image     []byte        `json:"image,omitempty"`
		Layers    []LayerRecord `json:"layers,omitempty"`
		Frames    []FrameRecord `json:"frames,omitempty"`
		CreatedAt time.Time     `json:"createdAt"`
		UpdatedAt time.Time     `json:"updatedAt"`
	}

	// CartoonStore persists cartoons locally.
	CartoonStore interface {
		// List returns every saved cartoon without Image, Layers or Frames.
		List(ctx context.Context) ([]*Cartoon, error)

		// Get returns a single cartoon. Missing ids wrap ErrNotFound.
		Get(ctx context.Context, id string) (*Cartoon, error)

		// Save creates or updates a cartoon. An empty ID is assigned a new
		// one, which is also written back to c.ID.
		Save(ctx context.Context, c *Cartoon) (string, error)

		// Delete removes a cartoon. Deleting a missing id is not an error.
		Delete(ctx context.Context, id string) error
	}
)

// Summary returns a copy of c without the heavy pixel payloads.
func (c *Cartoon) Summary() *Cartoon {
	return &Cartoon{
		ID:        c.ID,
		Name:      c.Name,
		Width:     c.Width,
		Height:    c.Height,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// AutoSaveName is the record name used for automatic saves.
func AutoSaveName(t time.Time) string {
	return "Auto-saved " + t.Format("2006-01-02 15:04:05")
}

// ExportFileName is the default file name for a flattened PNG export.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("cartoon-%d.png", t.UnixMilli())
}

// Backup is the single JSON document written by a local data export.
type Backup struct {
	Version    int        `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Cartoons   []*Cartoon `json:"cartoons"`
}

// BackupVersion is the current Backup document format.
const BackupVersion = 1

// CollectBackup loads every cartoon in store in full.
func CollectBackup(ctx context.Context, store CartoonStore, now time.Time) (*Backup, error) {
	list, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cartoons: %w", err)
	}
	b := &Backup{Version: BackupVersion, ExportedAt: now, Cartoons: make([]*Cartoon, 0, len(list))}
	for _, s := range list {
		c, err := store.Get(ctx, s.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load cartoon %s: %w", s.ID, err)
		}
		b.Cartoons = append(b.Cartoons, c)
	}
	return b, nil
}
