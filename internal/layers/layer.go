// Package layers holds the ordered stack of drawable layers that make up a
// canvas and flattens them into a single image.
package layers

import (
	"errors"
	"image"

	"github.com/oklog/ulid/v2"

	"github.com/example/cartoonlab/internal/raster"
)

// ErrOutOfRange reports a layer index that does not exist.
var ErrOutOfRange = errors.New("layers: index out of range")

// Thumbnail dimensions used by the layer panel.
const (
	ThumbWidth  = 40
	ThumbHeight = 30
)

// Layer is one drawable surface plus its compositing attributes.
type Layer struct {
	ID      string
	Name    string
	Surface *raster.Surface
	Visible bool
	Opacity float64
	Blend   raster.BlendMode

	thumb *image.NRGBA
}

// NewLayer creates a visible, fully opaque, transparent layer.
func NewLayer(name string, w, h int) *Layer {
	return &Layer{
		ID:      ulid.Make().String(),
		Name:    name,
		Surface: raster.New(w, h),
		Visible: true,
		Opacity: 1,
	}
}

// Touch drops the cached thumbnail. Call it after mutating Surface.
func (l *Layer) Touch() { l.thumb = nil }

// Clear erases every pixel.
func (l *Layer) Clear() {
	l.Surface.Clear()
	l.Touch()
}

// Snapshot captures the layer pixels.
func (l *Layer) Snapshot() raster.Snapshot { return l.Surface.Snapshot() }

// UpdateThumbnail regenerates the cached thumbnail.
func (l *Layer) UpdateThumbnail() *image.NRGBA {
	l.thumb = l.Surface.Thumbnail(ThumbWidth, ThumbHeight)
	return l.thumb
}

// Thumbnail returns the cached thumbnail, building it if needed.
func (l *Layer) Thumbnail() *image.NRGBA {
	if l.thumb == nil {
		return l.UpdateThumbnail()
	}
	return l.thumb
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
