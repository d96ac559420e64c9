package raster

import (
	"fmt"
	"math"
	"strings"
)

// BlendMode selects the compositing function used when paint or a layer
// lands on existing pixels.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendDifference
	// BlendErase removes destination alpha in proportion to source alpha.
	BlendErase
)

var blendNames = []string{"normal", "multiply", "screen", "overlay", "darken", "lighten", "difference", "erase"}

func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendNames) {
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
	return blendNames[m]
}

// BlendModes lists every supported mode in declaration order.
func BlendModes() []BlendMode {
	out := make([]BlendMode, len(blendNames))
	for i := range out {
		out[i] = BlendMode(i)
	}
	return out
}

// ParseBlendMode accepts the mode names plus the canvas aliases
// "source-over" and "destination-out".
func ParseBlendMode(s string) (BlendMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "source-over":
		return BlendNormal, nil
	case "destination-out":
		return BlendErase, nil
	}
	for i, n := range blendNames {
		if n == s {
			return BlendMode(i), nil
		}
	}
	return BlendNormal, fmt.Errorf("unknown blend mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m BlendMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlendMode) UnmarshalText(b []byte) error {
	v, err := ParseBlendMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func blendChannel(m BlendMode, cb, cs float64) float64 {
	switch m {
	case BlendMultiply:
		return cb * cs
	case BlendScreen:
		return cb + cs - cb*cs
	case BlendOverlay:
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return 1 - 2*(1-cb)*(1-cs)
	case BlendDarken:
		return math.Min(cb, cs)
	case BlendLighten:
		return math.Max(cb, cs)
	case BlendDifference:
		return math.Abs(cb - cs)
	}
	return cs
}

// blendAt composites a straight colour (r, g, b) with effective alpha as onto
// the pixel starting at pix[0].
func blendAt(pix []uint8, r, g, b uint8, as float64, m BlendMode) {
	if as <= 0 {
		return
	}
	if as > 1 {
		as = 1
	}
	ab := float64(pix[3]) / 255
	if m == BlendErase {
		pix[3] = to8(ab * (1 - as))
		return
	}
	if m == BlendNormal && as == 1 {
		pix[0], pix[1], pix[2], pix[3] = r, g, b, 255
		return
	}
	ao := as + ab*(1-as)
	if ao <= 0 {
		pix[0], pix[1], pix[2], pix[3] = 0, 0, 0, 0
		return
	}
	src := [3]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}
	for i := 0; i < 3; i++ {
		cb := float64(pix[i]) / 255
		cs := src[i]
		co := cs*as*(1-ab) + cb*ab*(1-as) + as*ab*blendChannel(m, cb, cs)
		pix[i] = to8(co / ao)
	}
	pix[3] = to8(ao)
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
