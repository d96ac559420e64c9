package raster

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// DrawSurface composites src over s with the given opacity and blend mode.
// Both surfaces must share a size; extra pixels are ignored.
func (s *Surface) DrawSurface(src *Surface, opacity float64, m BlendMode) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	r := s.Bounds().Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			so := src.offset(x, y)
			sp := src.img.Pix[so : so+4 : so+4]
			if sp[3] == 0 {
				continue
			}
			o := s.offset(x, y)
			blendAt(s.img.Pix[o:o+4:o+4], sp[0], sp[1], sp[2], opacity*float64(sp[3])/255, m)
		}
	}
}

// Thumbnail returns a w x h downscaled copy of the surface.
func (s *Surface) Thumbnail(w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, s.img, s.img.Rect, xdraw.Src, nil)
	return dst
}
