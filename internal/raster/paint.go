package raster

import (
	"fmt"
	"image/color"
	"strings"
)

// LineCap selects how stroke ends and stamps are shaped.
type LineCap int

const (
	CapRound LineCap = iota
	CapSquare
)

func (c LineCap) String() string {
	if c == CapSquare {
		return "square"
	}
	return "round"
}

// ParseLineCap accepts "round" or "square".
func ParseLineCap(s string) (LineCap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "round":
		return CapRound, nil
	case "square", "butt":
		return CapSquare, nil
	}
	return CapRound, fmt.Errorf("unknown line cap %q", s)
}

// Paint carries everything a primitive needs to know about how to mark
// pixels.
type Paint struct {
	Color color.NRGBA
	Width int
	Cap   LineCap
	// Alpha multiplies the colour's own alpha; 0 is treated as 1.
	Alpha float64
	Mode  BlendMode
}

// Solid returns a one-pixel, fully opaque normal-blend paint.
func Solid(c color.NRGBA) Paint {
	return Paint{Color: c, Width: 1, Cap: CapRound, Alpha: 1}
}

func (p Paint) alpha() float64 {
	a := p.Alpha
	if a <= 0 || a > 1 {
		a = 1
	}
	return a * float64(p.Color.A) / 255
}

func (p Paint) width() int {
	if p.Width < 1 {
		return 1
	}
	return p.Width
}
