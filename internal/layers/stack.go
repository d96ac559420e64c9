package layers

import (
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/raster"
)

// Default layer names.
const (
	BackgroundName = "Background"
	DrawingName    = "Drawing"
)

// Stack is an ordered list of layers, bottom first, with one active layer.
// It always holds at least one layer.
type Stack struct {
	width, height int
	layers        []*Layer
	active        int
}

// NewStack builds the default two-layer stack: an opaque background filled
// with bg and a transparent drawing layer, which is active.
func NewStack(w, h int, bg color.NRGBA) *Stack {
	s := &Stack{width: max(w, 1), height: max(h, 1)}
	back := NewLayer(BackgroundName, s.width, s.height)
	back.Surface.Fill(bg)
	s.layers = []*Layer{back, NewLayer(DrawingName, s.width, s.height)}
	s.active = 1
	return s
}

// NewStackFrom wraps existing layers. All layers must match w x h.
func NewStackFrom(w, h int, ls []*Layer, active int) (*Stack, error) {
	if len(ls) == 0 {
		return nil, fmt.Errorf("empty layer list: %w", ErrOutOfRange)
	}
	for _, l := range ls {
		if l.Surface.Width() != w || l.Surface.Height() != h {
			return nil, fmt.Errorf("layer %q is %dx%d, want %dx%d", l.Name, l.Surface.Width(), l.Surface.Height(), w, h)
		}
	}
	if active < 0 || active >= len(ls) {
		active = len(ls) - 1
	}
	return &Stack{width: w, height: h, layers: ls, active: active}, nil
}

// Size returns the canvas dimensions shared by every layer.
func (s *Stack) Size() (int, int) { return s.width, s.height }

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// Layers returns the layers bottom first. The slice must not be modified.
func (s *Stack) Layers() []*Layer { return s.layers }

// At returns layer i.
func (s *Stack) At(i int) (*Layer, error) {
	if i < 0 || i >= len(s.layers) {
		return nil, fmt.Errorf("layer %d: %w", i, ErrOutOfRange)
	}
	return s.layers[i], nil
}

// Active returns the layer tools draw on.
func (s *Stack) Active() *Layer { return s.layers[s.active] }

// ActiveIndex returns the index of the active layer.
func (s *Stack) ActiveIndex() int { return s.active }

// LayerByID finds a layer by its stable id.
func (s *Stack) LayerByID(id string) (*Layer, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.layers[i], true
}

// IndexOf returns the index of the layer with id, or -1.
func (s *Stack) IndexOf(id string) int {
	for i, l := range s.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// AddLayer appends a transparent layer on top and makes it active.
func (s *Stack) AddLayer(name string) int {
	s.layers = append(s.layers, NewLayer(name, s.width, s.height))
	s.active = len(s.layers) - 1
	return s.active
}

// SelectActive makes layer i active.
func (s *Stack) SelectActive(i int) error {
	if i < 0 || i >= len(s.layers) {
		return fmt.Errorf("select layer %d: %w", i, ErrOutOfRange)
	}
	s.active = i
	return nil
}

// ToggleVisibility flips layer i's visibility and returns the new state.
func (s *Stack) ToggleVisibility(i int) (bool, error) {
	l, err := s.At(i)
	if err != nil {
		return false, err
	}
	l.Visible = !l.Visible
	return l.Visible, nil
}

// SetOpacity sets layer i's opacity, clamped to [0, 1].
func (s *Stack) SetOpacity(i int, v float64) error {
	l, err := s.At(i)
	if err != nil {
		return err
	}
	l.Opacity = clamp01(v)
	return nil
}

// SetBlendMode sets layer i's blend mode.
func (s *Stack) SetBlendMode(i int, m raster.BlendMode) error {
	l, err := s.At(i)
	if err != nil {
		return err
	}
	l.Blend = m
	return nil
}

// Rename sets layer i's display name.
func (s *Stack) Rename(i int, name string) error {
	l, err := s.At(i)
	if err != nil {
		return err
	}
	l.Name = name
	return nil
}

// Composite flattens every visible layer, bottom first, into dst, which is
// cleared first. dst must match the stack size.
func (s *Stack) Composite(dst *raster.Surface) {
	dst.Clear()
	for _, l := range s.layers {
		if !l.Visible {
			continue
		}
		dst.DrawSurface(l.Surface, l.Opacity, l.Blend)
	}
}

// CompositeImage returns the flattened stack as a fresh image.
func (s *Stack) CompositeImage() *image.NRGBA {
	dst := raster.New(s.width, s.height)
	s.Composite(dst)
	return dst.Image()
}

// MergeAll flattens the stack into layer 0 and discards the rest. Layer 0
// keeps its id and name and is reset to visible, opaque and normal blend.
// It returns the ids of the discarded layers.
func (s *Stack) MergeAll() []string {
	flat := raster.New(s.width, s.height)
	s.Composite(flat)
	base := s.layers[0]
	if err := base.Surface.Replace(flat.Image()); err != nil {
		// Sizes always agree inside a stack.
		panic(err)
	}
	base.Visible = true
	base.Opacity = 1
	base.Blend = raster.BlendNormal
	base.Touch()

	removed := make([]string, 0, len(s.layers)-1)
	for _, l := range s.layers[1:] {
		removed = append(removed, l.ID)
	}
	s.layers = s.layers[:1]
	s.active = 0
	logrus.WithFields(logrus.Fields{
		"layer_id": base.ID,
		"removed":  len(removed),
	}).Debug("merged layers")
	return removed
}
