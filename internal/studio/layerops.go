package studio

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/history"
	"github.com/example/cartoonlab/internal/layers"
	"github.com/example/cartoonlab/internal/raster"
)

// LayerInfo is what the layers panel shows for one layer.
type LayerInfo struct {
	Index     int
	ID        string
	Name      string
	Visible   bool
	Opacity   float64
	Blend     raster.BlendMode
	Active    bool
	Thumbnail *image.NRGBA
}

// Layers describes every layer, bottom first.
func (s *Studio) Layers() []LayerInfo {
	out := make([]LayerInfo, 0, s.stack.Len())
	for i, l := range s.stack.Layers() {
		out = append(out, LayerInfo{
			Index:     i,
			ID:        l.ID,
			Name:      l.Name,
			Visible:   l.Visible,
			Opacity:   l.Opacity,
			Blend:     l.Blend,
			Active:    i == s.stack.ActiveIndex(),
			Thumbnail: l.Thumbnail(),
		})
	}
	return out
}

// ActiveLayer returns the index of the layer tools draw on.
func (s *Studio) ActiveLayer() int { return s.stack.ActiveIndex() }

// AddLayer prompts for a name, defaulting to "Layer N", and appends a new
// active layer. It returns the new index.
func (s *Studio) AddLayer() (int, error) {
	def := fmt.Sprintf("Layer %d", s.stack.Len()+1)
	name, ok := s.prompter.Prompt("Enter layer name:", def)
	if !ok || name == "" {
		return 0, ErrAborted
	}
	return s.AddLayerNamed(name), nil
}

// AddLayerNamed appends a new active layer without prompting.
func (s *Studio) AddLayerNamed(name string) int {
	s.settle()
	s.finishGesture()
	i := s.stack.AddLayer(name)
	l := s.stack.Active()
	if s.scope == history.ScopeLayer {
		s.book.Track(history.Entry{LayerID: l.ID, Snapshot: l.Snapshot()})
	}
	logrus.WithFields(logrus.Fields{"layer_id": l.ID, "name": name}).Debug("layer added")
	s.changed()
	return i
}

// PasteLayer adds a layer named name holding img anchored at the top-left
// corner. Pixels beyond the canvas are dropped.
func (s *Studio) PasteLayer(name string, img image.Image) int {
	i := s.AddLayerNamed(name)
	s.stack.Active().Surface.DrawSurface(raster.FromImage(img), 1, raster.BlendNormal)
	s.commit()
	s.changed()
	return i
}

// SelectLayer makes layer i active.
func (s *Studio) SelectLayer(i int) error {
	s.settle()
	s.finishGesture()
	if err := s.stack.SelectActive(i); err != nil {
		return err
	}
	s.changed()
	return nil
}

// ToggleVisibility flips layer i's visibility.
func (s *Studio) ToggleVisibility(i int) (bool, error) {
	v, err := s.stack.ToggleVisibility(i)
	if err != nil {
		return false, err
	}
	s.changed()
	return v, nil
}

// SetLayerOpacity sets layer i's opacity in [0, 1].
func (s *Studio) SetLayerOpacity(i int, v float64) error {
	if err := s.stack.SetOpacity(i, v); err != nil {
		return err
	}
	s.changed()
	return nil
}

// SetLayerBlend sets layer i's blend mode.
func (s *Studio) SetLayerBlend(i int, m raster.BlendMode) error {
	if err := s.stack.SetBlendMode(i, m); err != nil {
		return err
	}
	s.changed()
	return nil
}

// RenameLayer prompts for a new name for layer i.
func (s *Studio) RenameLayer(i int) error {
	l, err := s.stack.At(i)
	if err != nil {
		return err
	}
	name, ok := s.prompter.Prompt("Enter layer name:", l.Name)
	if !ok || name == "" {
		return ErrAborted
	}
	_ = s.stack.Rename(i, name)
	s.changed()
	return nil
}

// ClearLayer erases the active layer after confirmation.
func (s *Studio) ClearLayer() error {
	if !s.confirmer.Confirm("Clear the current layer?") {
		return ErrAborted
	}
	s.settle()
	s.finishGesture()
	s.stack.Active().Clear()
	s.commit()
	s.changed()
	return nil
}

// MergeLayers flattens every layer into the bottom one after confirmation.
// Frames that captured a removed layer become stale.
func (s *Studio) MergeLayers() error {
	if !s.confirmer.Confirm("Merge all layers into one?") {
		return ErrAborted
	}
	s.settle()
	s.finishGesture()
	removed := s.stack.MergeAll()
	s.book.Forget(removed...)
	if n := s.frames.Invalidate(removed...); n > 0 {
		logrus.WithField("frames", n).Info("frames invalidated by merge")
	}
	s.commit()
	s.changed()
	return nil
}

// Stack exposes the layer stack for read-only inspection.
func (s *Studio) Stack() *layers.Stack { return s.stack }
