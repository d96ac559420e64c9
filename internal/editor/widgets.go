package editor

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/sirupsen/logrus"

	xdraw "golang.org/x/image/draw"

	"github.com/example/cartoonlab/internal/theme"
)

// ButtonState describes the visual state of a control.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		logrus.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		logrus.Fatalf("font face: %v", err)
	}
}

// control is one clickable or informational element. Controls are rebuilt
// from studio state on every frame, so they hold no state of their own.
type control struct {
	rect   image.Rectangle
	label  string
	swatch *color.NRGBA
	thumb  image.Image
	active bool
	muted  bool
	// stacked puts the thumbnail above the label instead of beside it.
	stacked bool
	action  func()
}

func thumbOf(img *image.NRGBA) image.Image {
	if img == nil {
		return nil
	}
	return img
}

func (c *control) Rect() image.Rectangle { return c.rect }

func (c *control) Activate() {
	if c.action != nil {
		c.action()
	}
}

func (c *control) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	if c.swatch != nil {
		draw.Draw(dst, c.rect, image.NewUniform(*c.swatch), image.Point{}, draw.Src)
		border := th.ButtonBorder
		if state == StateHover {
			border = th.ButtonBackgroundHover
		}
		if c.active {
			drawRect(dst, c.rect, th.Accent, 2)
		} else {
			drawRect(dst, c.rect, border, 1)
		}
		return
	}
	bg := th.ButtonBackground
	switch {
	case c.active:
		bg = th.ButtonBackgroundPress
	case state == StateHover && c.action != nil:
		bg = th.ButtonBackgroundHover
	case c.action == nil:
		bg = th.PanelBackground
	}
	draw.Draw(dst, c.rect, image.NewUniform(bg), image.Point{}, draw.Src)
	if c.action != nil {
		drawRect(dst, c.rect, th.ButtonBorder, 1)
	}
	if c.active {
		drawRect(dst, c.rect.Inset(1), th.Accent, 1)
	}
	x := c.rect.Min.X + 4
	if c.stacked {
		c.drawStacked(dst, th)
		return
	}
	if c.thumb != nil {
		tb := c.thumb.Bounds()
		tr := image.Rect(0, 0, tb.Dx(), tb.Dy()).Add(image.Pt(x, c.rect.Min.Y+(c.rect.Dy()-tb.Dy())/2))
		drawChecker(dst, tr, th, 4)
		draw.Draw(dst, tr, c.thumb, tb.Min, draw.Over)
		drawRect(dst, tr, th.ButtonBorder, 1)
		x = tr.Max.X + 4
	}
	col := th.ButtonText
	if c.action == nil {
		col = th.PanelText
	}
	if c.muted {
		col = th.HiddenText
	}
	drawLabel(dst, c.label, image.Pt(x, c.rect.Min.Y+(c.rect.Dy()+10)/2), col, c.rect.Max.X-2)
}

// drawLabel writes s with the basic face, clipped at maxX.
func drawLabel(dst *image.RGBA, s string, dot image.Point, col color.Color, maxX int) {
	clip := dst.SubImage(image.Rect(dot.X, dot.Y-13, maxX, dot.Y+4)).(*image.RGBA)
	d := &font.Drawer{Dst: clip, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(dot.X, dot.Y)}
	d.DrawString(s)
}

func measureLabel(s string) int {
	return (&font.Drawer{Face: basicfont.Face7x13}).MeasureString(s).Ceil()
}

func drawRect(dst *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	for i := 0; i < thick; i++ {
		rr := r.Inset(i)
		if rr.Empty() {
			return
		}
		draw.Draw(dst, image.Rect(rr.Min.X, rr.Min.Y, rr.Max.X, rr.Min.Y+1), u, image.Point{}, draw.Over)
		draw.Draw(dst, image.Rect(rr.Min.X, rr.Max.Y-1, rr.Max.X, rr.Max.Y), u, image.Point{}, draw.Over)
		draw.Draw(dst, image.Rect(rr.Min.X, rr.Min.Y, rr.Min.X+1, rr.Max.Y), u, image.Point{}, draw.Over)
		draw.Draw(dst, image.Rect(rr.Max.X-1, rr.Min.Y, rr.Max.X, rr.Max.Y), u, image.Point{}, draw.Over)
	}
}

func fillRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// drawCross marks a stale frame thumbnail.
func drawCross(dst *image.RGBA, r image.Rectangle, col color.Color) {
	n := min(r.Dx(), r.Dy())
	for i := 0; i < n; i++ {
		dst.Set(r.Min.X+i*r.Dx()/n, r.Min.Y+i*r.Dy()/n, col)
		dst.Set(r.Max.X-1-i*r.Dx()/n, r.Min.Y+i*r.Dy()/n, col)
	}
}

// scaleInto draws src scaled into r with nearest-neighbour sampling so
// zoomed pixels stay crisp.
func scaleInto(dst *image.RGBA, r image.Rectangle, src image.Image) {
	xdraw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
}

func (c *control) drawStacked(dst *image.RGBA, th *theme.Theme) {
	tr := image.Rect(0, 0, frameThumbW, frameThumbH).Add(image.Pt(c.rect.Min.X+2, c.rect.Min.Y+2))
	drawChecker(dst, tr, th, 4)
	if c.thumb != nil {
		scaleInto(dst, tr, c.thumb)
	}
	drawRect(dst, tr, th.ButtonBorder, 1)
	col := th.ButtonText
	if c.muted {
		col = th.StaleText
		drawCross(dst, tr, th.StaleText)
	}
	drawLabel(dst, c.label, image.Pt(c.rect.Min.X+4, c.rect.Max.Y-4), col, c.rect.Max.X-2)
}
