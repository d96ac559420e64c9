package raster

import (
	"image"
)

// coverage accumulates the pixels touched by one primitive so overlapping
// stamps inside a single stroke are painted exactly once.
type coverage struct {
	bounds image.Rectangle
	hit    []bool
	dirty  image.Rectangle
}

func newCoverage(b image.Rectangle) *coverage {
	return &coverage{bounds: b, hit: make([]bool, b.Dx()*b.Dy())}
}

func (c *coverage) set(x, y int) {
	if x < c.bounds.Min.X || y < c.bounds.Min.Y || x >= c.bounds.Max.X || y >= c.bounds.Max.Y {
		return
	}
	c.hit[y*c.bounds.Dx()+x] = true
	c.dirty = c.dirty.Union(image.Rect(x, y, x+1, y+1))
}

func (c *coverage) span(x0, x1, y int) {
	if y < c.bounds.Min.Y || y >= c.bounds.Max.Y {
		return
	}
	x0 = max(x0, c.bounds.Min.X)
	x1 = min(x1, c.bounds.Max.X-1)
	if x0 > x1 {
		return
	}
	row := y * c.bounds.Dx()
	for x := x0; x <= x1; x++ {
		c.hit[row+x] = true
	}
	c.dirty = c.dirty.Union(image.Rect(x0, y, x1+1, y+1))
}

// stamp marks a brush footprint of the given width centred on (x, y).
func (c *coverage) stamp(x, y, w int, cp LineCap) {
	if w <= 1 {
		c.set(x, y)
		return
	}
	lo := -(w - 1) / 2
	hi := w / 2
	if cp == CapSquare {
		for dy := lo; dy <= hi; dy++ {
			c.span(x+lo, x+hi, y+dy)
		}
		return
	}
	r := float64(w) / 2
	r2 := r * r
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			if float64(dx*dx+dy*dy) <= r2 {
				c.set(x+dx, y+dy)
			}
		}
	}
}

// line walks a Bresenham line, stamping each step.
func (c *coverage) line(x0, y0, x1, y1, w int, cp LineCap) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.stamp(x0, y0, w, cp)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// apply blends p through the accumulated coverage onto s.
func (c *coverage) apply(s *Surface, p Paint) int {
	if c.dirty.Empty() {
		return 0
	}
	a := p.alpha()
	if a <= 0 {
		return 0
	}
	n := 0
	stride := c.bounds.Dx()
	for y := c.dirty.Min.Y; y < c.dirty.Max.Y; y++ {
		for x := c.dirty.Min.X; x < c.dirty.Max.X; x++ {
			if !c.hit[y*stride+x] {
				continue
			}
			o := s.offset(x, y)
			blendAt(s.img.Pix[o:o+4:o+4], p.Color.R, p.Color.G, p.Color.B, a, p.Mode)
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
