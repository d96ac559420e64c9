package editor

import (
	"image"
)

const (
	titleHeight  = 24
	statusHeight = 24
	toolbarWidth = 104
	panelWidth   = 196
	rowHeight    = 22
	swatchSize   = 18
	layerRow     = 38
	frameThumbW  = 80
	frameThumbH  = 60
	timelineH    = frameThumbH + 30
	pad          = 4
)

// layout holds the screen regions for one window size. It is recomputed on
// every resize and used both for painting and hit testing.
type layout struct {
	width, height int

	title    image.Rectangle
	toolbar  image.Rectangle
	panel    image.Rectangle
	timeline image.Rectangle
	status   image.Rectangle
	canvas   image.Rectangle // area available to the drawing
}

func newLayout(width, height int) layout {
	l := layout{width: width, height: height}
	l.title = image.Rect(0, 0, width, titleHeight)
	l.status = image.Rect(0, height-statusHeight, width, height)
	l.timeline = image.Rect(toolbarWidth, l.status.Min.Y-timelineH, width-panelWidth, l.status.Min.Y)
	l.toolbar = image.Rect(0, titleHeight, toolbarWidth, l.status.Min.Y)
	l.panel = image.Rect(width-panelWidth, titleHeight, width, l.status.Min.Y)
	l.canvas = image.Rect(toolbarWidth, titleHeight, width-panelWidth, l.timeline.Min.Y)
	return l
}

// windowSize returns a window size that shows a w x h canvas at 1:1.
func windowSize(w, h int) (int, int) {
	return w + toolbarWidth + panelWidth, h + titleHeight + timelineH + statusHeight
}

// fitZoom returns the largest zoom no greater than 1 that fits the canvas
// into the available area.
func fitZoom(canvasW, canvasH int, avail image.Rectangle) float64 {
	if canvasW <= 0 || canvasH <= 0 || avail.Empty() {
		return 1
	}
	zx := float64(avail.Dx()) / float64(canvasW)
	zy := float64(avail.Dy()) / float64(canvasH)
	return min(zx, zy, 1)
}

// imageRect returns where the canvas is drawn inside avail: anchored at the
// top-left corner so the drawing does not jump while the window resizes.
func imageRect(canvasW, canvasH int, avail image.Rectangle, zoom float64) image.Rectangle {
	w := int(float64(canvasW) * zoom)
	h := int(float64(canvasH) * zoom)
	return image.Rect(0, 0, max(w, 1), max(h, 1)).Add(avail.Min.Add(image.Pt(pad, pad)))
}

// toCanvas converts a window point into canvas coordinates.
func toCanvas(p image.Point, dst image.Rectangle, zoom float64) image.Point {
	if zoom <= 0 {
		zoom = 1
	}
	return image.Pt(
		int(float64(p.X-dst.Min.X)/zoom),
		int(float64(p.Y-dst.Min.Y)/zoom),
	)
}
