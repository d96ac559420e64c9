// Package render holds presentation helpers shared by the editor, the CLI
// export path and the gallery: drop shadows, thumbnails and checkerboard
// backdrops.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow added around an exported cartoon.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	// Margin is transparent padding added on every side before the shadow
	// is cast.
	Margin int
}

// DefaultShadowOptions returns the shadow used by "export -shadow".
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  16,
		Offset:  image.Pt(10, 10),
		Opacity: 0.45,
		Margin:  8,
	}
}

// ApplyShadow returns img on an enlarged transparent canvas with a blurred
// drop shadow beneath it. The result always has a zero origin.
func ApplyShadow(img image.Image, opts ShadowOptions) *image.NRGBA {
	if img == nil {
		return nil
	}
	src := img.Bounds()
	margin := max(opts.Margin, 0)
	radius := max(opts.Radius, 0)
	opacity := min(opts.Opacity, 1)

	content := image.Rect(0, 0, src.Dx(), src.Dy()).Add(image.Pt(margin, margin))
	canvas := content.Inset(-margin)
	if opacity > 0 {
		canvas = canvas.Union(content.Inset(-radius).Add(opts.Offset))
	}
	shift := canvas.Min.Mul(-1)
	content = content.Add(shift)
	dst := image.NewNRGBA(canvas.Sub(canvas.Min))

	if opacity > 0 {
		padded := content.Inset(-radius)
		mask := image.NewAlpha(padded.Sub(padded.Min))
		for y := 0; y < src.Dy(); y++ {
			for x := 0; x < src.Dx(); x++ {
				_, _, _, a := img.At(src.Min.X+x, src.Min.Y+y).RGBA()
				if a == 0 {
					continue
				}
				mask.SetAlpha(x+radius, y+radius, color.Alpha{A: uint8(a >> 8)})
			}
		}
		blurred := blurAlpha(mask, radius)
		shade := image.NewUniform(color.NRGBA{0, 0, 0, uint8(opacity*255 + 0.5)})
		draw.DrawMask(dst, padded.Add(opts.Offset), shade, image.Point{}, blurred, image.Point{}, draw.Over)
	}
	draw.Draw(dst, content, img, src.Min, draw.Over)
	return dst
}

// blurAlpha applies a separable box blur using running prefix sums.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	out := image.NewAlpha(src.Bounds())
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := make([]uint8, w*h)
	prefix := make([]int, max(w, h)+1)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp[y*w+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp[y*w+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			out.Pix[y*out.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return out
}
