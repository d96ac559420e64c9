package assets

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/example/cartoonlab/internal/raster"
)

// Embedded icon assets for Cartoon Lab.
//
//go:embed icons/cartoonlab.svg
var svgData []byte

var (
	iconMu  sync.Mutex
	iconPNG = map[int][]byte{}
	iconImg = map[int]*image.NRGBA{}
)

var iconSizes = []int{16, 32, 48, 64, 128, 256}

var (
	iconRing  = color.NRGBA{0x6c, 0x5c, 0xe7, 0xff}
	iconPaper = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	iconBrush = color.NRGBA{0xfd, 0x79, 0xa8, 0xff}
	iconDot   = color.NRGBA{0xfd, 0xcb, 0x6e, 0xff}
)

// renderIcon draws the SVG's shapes with the raster primitives, scaled
// from its 64 unit view box.
func renderIcon(size int) *image.NRGBA {
	s := raster.New(size, size)
	scale := func(v int) int { return v * size / 64 }
	c := image.Pt(scale(32), scale(32))
	s.FillEllipse(c, scale(28), scale(28), raster.Solid(iconRing))
	s.FillEllipse(c, scale(20), scale(20), raster.Solid(iconPaper))
	brush := raster.Solid(iconBrush)
	brush.Width = max(scale(8), 1)
	s.StrokeSegment(image.Pt(scale(20), scale(44)), image.Pt(scale(44), scale(20)), brush)
	s.FillEllipse(image.Pt(scale(44), scale(44)), max(scale(5), 1), max(scale(5), 1), raster.Solid(iconDot))
	return s.Image()
}

func supported(size int) bool {
	for _, s := range iconSizes {
		if s == size {
			return true
		}
	}
	return false
}

// IconImage returns the application icon rendered at one of IconSizes.
func IconImage(size int) (image.Image, error) {
	if !supported(size) {
		return nil, fmt.Errorf("icon %dpx not available", size)
	}
	iconMu.Lock()
	defer iconMu.Unlock()
	img, ok := iconImg[size]
	if !ok {
		img = renderIcon(size)
		iconImg[size] = img
	}
	return img, nil
}

// IconPNG returns a copy of the PNG bytes for the requested icon size.
func IconPNG(size int) ([]byte, error) {
	img, err := IconImage(size)
	if err != nil {
		return nil, err
	}
	iconMu.Lock()
	data, ok := iconPNG[size]
	if !ok {
		data = raster.Encode(img)
		iconPNG[size] = data
	}
	iconMu.Unlock()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// IconSizes lists the icon sizes that can be rendered.
func IconSizes() []int {
	return append([]int(nil), iconSizes...)
}

// IconSVG returns the SVG icon bytes.
func IconSVG() []byte {
	out := make([]byte, len(svgData))
	copy(out, svgData)
	return out
}
