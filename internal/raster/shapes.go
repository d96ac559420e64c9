package raster

import (
	"image"
	"math"
	"sort"
)

// StrokeSegment draws a line from a to b.
func (s *Surface) StrokeSegment(a, b image.Point, p Paint) {
	c := newCoverage(s.Bounds())
	c.line(a.X, a.Y, b.X, b.Y, p.width(), p.Cap)
	c.apply(s, p)
}

// StrokePolyline draws connected segments through pts as a single stroke.
func (s *Surface) StrokePolyline(pts []image.Point, p Paint) {
	if len(pts) == 0 {
		return
	}
	c := newCoverage(s.Bounds())
	w := p.width()
	if len(pts) == 1 {
		c.stamp(pts[0].X, pts[0].Y, w, p.Cap)
	}
	for i := 1; i < len(pts); i++ {
		c.line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, w, p.Cap)
	}
	c.apply(s, p)
}

// StrokeRect outlines r. The outline runs along the rectangle's edge pixels.
func (s *Surface) StrokeRect(r image.Rectangle, p Paint) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	c := newCoverage(s.Bounds())
	w := p.width()
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	c.line(x0, y0, x1, y0, w, CapSquare)
	c.line(x1, y0, x1, y1, w, CapSquare)
	c.line(x1, y1, x0, y1, w, CapSquare)
	c.line(x0, y1, x0, y0, w, CapSquare)
	c.apply(s, p)
}

// StrokeEllipse outlines the ellipse centred on center.
func (s *Surface) StrokeEllipse(center image.Point, rx, ry int, p Paint) {
	if rx < 0 || ry < 0 {
		return
	}
	c := newCoverage(s.Bounds())
	w := p.width()
	steps := int(math.Ceil(2 * math.Pi * math.Sqrt(float64(rx*rx+ry*ry))))
	if steps < 8 {
		steps = 8
	}
	var prevX, prevY int
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := center.X + int(math.Round(math.Cos(angle)*float64(rx)))
		y := center.Y + int(math.Round(math.Sin(angle)*float64(ry)))
		if i > 0 {
			c.line(prevX, prevY, x, y, w, p.Cap)
		} else {
			c.stamp(x, y, w, p.Cap)
		}
		prevX, prevY = x, y
	}
	c.apply(s, p)
}

// StrokePolygon outlines the closed path through pts.
func (s *Surface) StrokePolygon(pts []image.Point, p Paint) error {
	if len(pts) < 2 {
		return ErrInvalidGeometry
	}
	c := newCoverage(s.Bounds())
	w := p.width()
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		c.line(a.X, a.Y, b.X, b.Y, w, p.Cap)
	}
	c.apply(s, p)
	return nil
}

// FillRect paints every pixel of r that lies on the surface.
func (s *Surface) FillRect(r image.Rectangle, p Paint) {
	r = r.Canon().Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	c := newCoverage(s.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		c.span(r.Min.X, r.Max.X-1, y)
	}
	c.apply(s, p)
}

// FillEllipse paints the solid ellipse centred on center.
func (s *Surface) FillEllipse(center image.Point, rx, ry int, p Paint) {
	if rx < 0 || ry < 0 {
		return
	}
	c := newCoverage(s.Bounds())
	if ry == 0 {
		c.span(center.X-rx, center.X+rx, center.Y)
	}
	for dy := -ry; ry > 0 && dy <= ry; dy++ {
		span := int(float64(rx) * math.Sqrt(1.0-float64(dy*dy)/float64(ry*ry)))
		c.span(center.X-span, center.X+span, center.Y+dy)
	}
	c.apply(s, p)
}

// FillPolygon paints the interior of the closed path through pts using the
// even-odd rule sampled at pixel centres.
func (s *Surface) FillPolygon(pts []image.Point, p Paint) error {
	if len(pts) < 3 {
		return ErrInvalidGeometry
	}
	b := s.Bounds()
	minY, maxY := pts[0].Y, pts[0].Y
	for _, pt := range pts[1:] {
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}
	minY = max(minY, b.Min.Y)
	maxY = min(maxY, b.Max.Y-1)
	c := newCoverage(b)
	xs := make([]float64, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		cy := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			a := pts[i]
			e := pts[(i+1)%len(pts)]
			ay, ey := float64(a.Y), float64(e.Y)
			if (ay <= cy && ey > cy) || (ey <= cy && ay > cy) {
				t := (cy - ay) / (ey - ay)
				xs = append(xs, float64(a.X)+t*float64(e.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Ceil(xs[i+1]-0.5)) - 1
			c.span(x0, x1, y)
		}
	}
	c.apply(s, p)
	return nil
}

// Plot paints a single pixel. Points off the surface are ignored.
func (s *Surface) Plot(pt image.Point, p Paint) {
	if !pt.In(s.Bounds()) {
		return
	}
	o := s.offset(pt.X, pt.Y)
	blendAt(s.img.Pix[o:o+4:o+4], p.Color.R, p.Color.G, p.Color.B, p.alpha(), p.Mode)
}
