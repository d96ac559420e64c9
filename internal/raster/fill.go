package raster

import (
	"fmt"
	"image"
	"image/color"
)

// DefaultTolerance is the per-channel distance the fill tool treats as
// "the same colour".
const DefaultTolerance = 10

// FloodFill replaces the 4-connected region around seed whose pixels are
// within tol of the seed colour on every channel. Filled pixels are written
// opaque. It returns the number of pixels whose value changed.
func (s *Surface) FloodFill(seed image.Point, fill color.NRGBA, tol int) (int, error) {
	if !seed.In(s.Bounds()) {
		return 0, fmt.Errorf("flood fill at %v: %w", seed, ErrOutOfBounds)
	}
	if tol < 0 {
		tol = 0
	}
	w, h := s.Width(), s.Height()
	pix := s.img.Pix
	so := s.offset(seed.X, seed.Y)
	target := [4]uint8{pix[so], pix[so+1], pix[so+2], pix[so+3]}
	repl := [4]uint8{fill.R, fill.G, fill.B, 255}

	visited := make([]bool, w*h)
	stack := []image.Point{seed}
	changed := 0
	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if pt.X < 0 || pt.Y < 0 || pt.X >= w || pt.Y >= h {
			continue
		}
		vi := pt.Y*w + pt.X
		if visited[vi] {
			continue
		}
		visited[vi] = true
		o := s.offset(pt.X, pt.Y)
		px := pix[o : o+4 : o+4]
		if !within(px, target, tol) {
			continue
		}
		if px[0] != repl[0] || px[1] != repl[1] || px[2] != repl[2] || px[3] != repl[3] {
			copy(px, repl[:])
			changed++
		}
		stack = append(stack,
			image.Pt(pt.X+1, pt.Y),
			image.Pt(pt.X-1, pt.Y),
			image.Pt(pt.X, pt.Y+1),
			image.Pt(pt.X, pt.Y-1),
		)
	}
	return changed, nil
}

func within(px []uint8, target [4]uint8, tol int) bool {
	for i := 0; i < 4; i++ {
		if abs(int(px[i])-int(target[i])) > tol {
			return false
		}
	}
	return true
}

// FillGradientRect paints r with a linear gradient running from start at
// point from to end at point to. Positions beyond either end clamp.
func (s *Surface) FillGradientRect(r image.Rectangle, from, to image.Point, start, end color.NRGBA, p Paint) {
	r = r.Canon().Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	den := dx*dx + dy*dy
	scale := p.Alpha
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			t := 0.0
			if den > 0 {
				t = ((float64(x)+0.5-float64(from.X))*dx + (float64(y)+0.5-float64(from.Y))*dy) / den
				t = min(max(t, 0), 1)
			}
			c := lerp(start, end, t)
			o := s.offset(x, y)
			blendAt(s.img.Pix[o:o+4:o+4], c.R, c.G, c.B, scale*float64(c.A)/255, p.Mode)
		}
	}
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return to8((float64(x) + (float64(y)-float64(x))*t) / 255)
	}
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}
