// Package storetest checks that a core.CartoonStore behaves like the others.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/cartoonlab/internal/core"
)

// Run exercises store against the behaviour every backend shares.
func Run(t *testing.T, store core.CartoonStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	c := &core.Cartoon{
		Name:   "first",
		Width:  4,
		Height: 3,
		Image:  []byte{1, 2, 3},
		Layers: []core.LayerRecord{{ID: "L1", Name: "Background", Visible: true, Opacity: 1, Blend: "normal", Data: []byte{9}}},
		Frames: []core.FrameRecord{{Name: "Frame 1", DurationMs: 100, Layers: []core.FrameLayer{{LayerID: "L1", Data: []byte{7}}}}},
	}
	id, err := store.Save(ctx, c)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if id == "" || c.ID != id {
		t.Fatalf("Save() id = %q, record id = %q", id, c.ID)
	}
	if len(id) != 26 {
		t.Errorf("Save() returned invalid ID length: got %d, want 26", len(id))
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Name != "first" || got.Width != 4 || got.Height != 3 || !bytes.Equal(got.Image, c.Image) {
		t.Fatalf("Get() = %+v", got.Summary())
	}
	if len(got.Layers) != 1 || got.Layers[0].ID != "L1" || !bytes.Equal(got.Layers[0].Data, []byte{9}) {
		t.Fatalf("layers not round-tripped: %+v", got.Layers)
	}
	if len(got.Frames) != 1 || got.Frames[0].DurationMs != 100 || got.Frames[0].Layers[0].LayerID != "L1" {
		t.Fatalf("frames not round-tripped: %+v", got.Frames)
	}
	created := got.CreatedAt
	if created.IsZero() {
		t.Fatalf("CreatedAt not set")
	}

	time.Sleep(2 * time.Millisecond)
	c.Name = "renamed"
	if _, err := store.Save(ctx, c); err != nil {
		t.Fatalf("Save(update) failed: %v", err)
	}
	got, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() after update failed: %v", err)
	}
	if got.Name != "renamed" {
		t.Fatalf("update not persisted: %q", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on update: %v -> %v", created, got.CreatedAt)
	}

	if _, err := store.Save(ctx, &core.Cartoon{Name: "second", Width: 1, Height: 1}); err != nil {
		t.Fatalf("Save(second) failed: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d cartoons", len(list))
	}
	for _, l := range list {
		if l.Image != nil || l.Layers != nil {
			t.Errorf("List() returned payload for %s", l.ID)
		}
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete(missing) failed: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Get() after delete = %v", err)
	}
}
