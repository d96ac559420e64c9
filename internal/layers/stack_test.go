package layers

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/cartoonlab/internal/raster"
)

var white = color.NRGBA{255, 255, 255, 255}

func TestNewStackDefaults(t *testing.T) {
	s := NewStack(20, 10, white)
	if s.Len() != 2 || s.ActiveIndex() != 1 {
		t.Fatalf("len=%d active=%d", s.Len(), s.ActiveIndex())
	}
	if s.Layers()[0].Name != BackgroundName || s.Layers()[1].Name != DrawingName {
		t.Fatalf("unexpected names %q %q", s.Layers()[0].Name, s.Layers()[1].Name)
	}
	if got := s.Layers()[0].Surface.NRGBAAt(3, 3); got != white {
		t.Fatalf("background not filled: %v", got)
	}
	if got := s.Layers()[1].Surface.NRGBAAt(3, 3); got.A != 0 {
		t.Fatalf("drawing layer not transparent: %v", got)
	}
	if s.Layers()[0].ID == s.Layers()[1].ID {
		t.Fatalf("layer ids are not unique")
	}
}

func TestAddAndSelect(t *testing.T) {
	s := NewStack(4, 4, white)
	i := s.AddLayer("Layer 3")
	if i != 2 || s.ActiveIndex() != 2 || s.Active().Name != "Layer 3" {
		t.Fatalf("added layer not active: %d %d", i, s.ActiveIndex())
	}
	if err := s.SelectActive(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if s.ActiveIndex() != 2 {
		t.Fatalf("failed select changed active layer")
	}
	if err := s.SelectActive(0); err != nil || s.ActiveIndex() != 0 {
		t.Fatalf("select 0: %v", err)
	}
	if _, err := s.ToggleVisibility(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestCompositeSkipsHidden(t *testing.T) {
	s := NewStack(4, 4, white)
	s.Active().Surface.FillRect(image.Rect(0, 0, 4, 4), raster.Solid(color.NRGBA{255, 0, 0, 255}))
	if got := s.CompositeImage().NRGBAAt(1, 1); got.R != 255 || got.G != 0 {
		t.Fatalf("composite = %v", got)
	}
	if vis, _ := s.ToggleVisibility(1); vis {
		t.Fatalf("toggle returned visible")
	}
	if got := s.CompositeImage().NRGBAAt(1, 1); got != white {
		t.Fatalf("hidden layer composited: %v", got)
	}
}

func TestMergeMatchesComposite(t *testing.T) {
	s := NewStack(8, 8, white)
	s.Active().Surface.FillRect(image.Rect(0, 0, 6, 6), raster.Solid(color.NRGBA{0, 0, 255, 255}))
	_ = s.SetOpacity(1, 0.5)
	s.AddLayer("Layer 3")
	s.Active().Surface.FillRect(image.Rect(2, 2, 8, 8), raster.Solid(color.NRGBA{200, 0, 0, 255}))
	_ = s.SetBlendMode(2, raster.BlendMultiply)
	s.AddLayer("hidden")
	s.Active().Surface.Fill(color.NRGBA{0, 255, 0, 255})
	_, _ = s.ToggleVisibility(3)

	want := raster.New(8, 8)
	s.Composite(want)
	baseID := s.Layers()[0].ID
	removed := s.MergeAll()

	if len(removed) != 3 || s.Len() != 1 || s.ActiveIndex() != 0 {
		t.Fatalf("merge left len=%d active=%d removed=%d", s.Len(), s.ActiveIndex(), len(removed))
	}
	base := s.Layers()[0]
	if base.ID != baseID || !base.Visible || base.Opacity != 1 || base.Blend != raster.BlendNormal {
		t.Fatalf("base layer attributes not reset: %+v", base)
	}
	if !base.Surface.Equal(want) {
		t.Fatalf("merged pixels differ from composite")
	}
	// Merging a single layer is idempotent.
	again := raster.New(8, 8)
	s.Composite(again)
	s.MergeAll()
	if !s.Layers()[0].Surface.Equal(again) {
		t.Fatalf("second merge changed pixels")
	}
}

func TestSetOpacityClamps(t *testing.T) {
	s := NewStack(2, 2, white)
	_ = s.SetOpacity(1, 3)
	if s.Layers()[1].Opacity != 1 {
		t.Fatalf("opacity not clamped: %v", s.Layers()[1].Opacity)
	}
	_ = s.SetOpacity(1, -1)
	if s.Layers()[1].Opacity != 0 {
		t.Fatalf("opacity not clamped: %v", s.Layers()[1].Opacity)
	}
}

func TestThumbnailCache(t *testing.T) {
	l := NewLayer("x", 80, 60)
	a := l.Thumbnail()
	if l.Thumbnail() != a {
		t.Fatalf("thumbnail not cached")
	}
	l.Touch()
	if l.Thumbnail() == a {
		t.Fatalf("Touch did not invalidate thumbnail")
	}
	if b := a.Bounds(); b.Dx() != ThumbWidth || b.Dy() != ThumbHeight {
		t.Fatalf("thumbnail bounds %v", b)
	}
}
