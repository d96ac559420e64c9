package tools

import (
	"image/color"
	"time"

	"github.com/example/cartoonlab/internal/raster"
)

// Limits on polygon side count.
const (
	MinPolygonSides = 3
	MaxPolygonSides = 12
)

// Session is the explicit drawing configuration tools read from. It is
// owned by the caller and changed only through discrete UI events.
type Session struct {
	Tool          Tool
	Color         color.NRGBA
	Size          int
	Opacity       float64
	Cap           raster.LineCap
	PolygonSides  int
	Tolerance     int
	TextSize      float64
	SprayInterval time.Duration
}

// DefaultColor is the initial brush colour.
var DefaultColor = color.NRGBA{0x6c, 0x5c, 0xe7, 0xff}

// DefaultSession returns the settings a fresh canvas starts with.
func DefaultSession() Session {
	return Session{
		Tool:          ToolBrush,
		Color:         DefaultColor,
		Size:          5,
		Opacity:       1,
		Cap:           raster.CapRound,
		PolygonSides:  5,
		Tolerance:     raster.DefaultTolerance,
		TextSize:      raster.DefaultTextSize,
		SprayInterval: 30 * time.Millisecond,
	}
}

// Normalize clamps every field into its valid range, substituting defaults
// for zero values.
func (s Session) Normalize() Session {
	d := DefaultSession()
	if s.Tool < 0 || int(s.Tool) >= len(toolNames) {
		s.Tool = d.Tool
	}
	if s.Size < 1 {
		s.Size = d.Size
	}
	if s.Size > 100 {
		s.Size = 100
	}
	if s.Opacity <= 0 || s.Opacity > 1 {
		s.Opacity = d.Opacity
	}
	if s.PolygonSides == 0 {
		s.PolygonSides = d.PolygonSides
	}
	s.PolygonSides = min(max(s.PolygonSides, MinPolygonSides), MaxPolygonSides)
	if s.Tolerance < 0 {
		s.Tolerance = d.Tolerance
	}
	if s.TextSize <= 0 {
		s.TextSize = d.TextSize
	}
	if s.SprayInterval <= 0 {
		s.SprayInterval = d.SprayInterval
	}
	return s
}

// Paint returns the raster paint for the session's current tool.
func (s Session) Paint() raster.Paint {
	p := raster.Paint{
		Color: s.Color,
		Width: s.Size,
		Cap:   s.Cap,
		Alpha: s.Opacity,
	}
	if s.Tool == ToolEraser {
		p.Mode = raster.BlendErase
		p.Color.A = 255
	}
	return p
}
