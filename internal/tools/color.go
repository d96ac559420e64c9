package tools

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Preset is a named swatch in the colour picker.
type Preset struct {
	Name  string
	Color color.NRGBA
}

var presets = []string{
	"#6c5ce7", "#fd79a8", "#00b894", "#fdcb6e", "#e17055",
	"#0984e3", "#00cec9", "#a29bfe", "#fab1a0", "#74b9ff",
	"#000000", "#ffffff", "#ff4757", "#2ed573", "#ffa502",
	"#1e90ff", "#ff6b81", "#7bed9f", "#70a1ff", "#dfe4ea",
}

// Presets returns the swatches shown by the colour picker.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, hex := range presets {
		c, _ := ParseColor(hex)
		out = append(out, Preset{Name: hex, Color: c})
	}
	return out
}

// ParseColor accepts an SVG colour name, #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.NRGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, nil
	}
	if !strings.HasPrefix(spec, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	hex := spec[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// FormatColor renders c as #rrggbb, or #rrggbbaa when not opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Lighten adds pct percent of full intensity to each channel, clamping at
// white. Alpha is kept.
func Lighten(c color.NRGBA, pct float64) color.NRGBA {
	amt := int(math.Round(2.55 * pct))
	ch := func(v uint8) uint8 {
		return uint8(min(max(int(v)+amt, 0), 255))
	}
	return color.NRGBA{ch(c.R), ch(c.G), ch(c.B), c.A}
}
