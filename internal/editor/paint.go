package editor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/example/cartoonlab/internal/render"
	"github.com/example/cartoonlab/internal/theme"
	"github.com/example/cartoonlab/internal/tools"
)

func drawChecker(dst *image.RGBA, r image.Rectangle, th *theme.Theme, size int) {
	render.Checkerboard(dst, r, size, th.CheckerLight, th.CheckerDark)
}

// Draw renders the whole window into dst. It must run on the studio's
// goroutine because it reads the studio's view.
func (u *UI) Draw(dst *image.RGBA) {
	th := u.th
	fillRect(dst, dst.Bounds(), th.Background)

	drawChecker(dst, u.imgRect, th, 8)
	scaleInto(dst, u.imgRect, u.st.View())
	drawRect(dst, u.imgRect.Inset(-1), th.ButtonBorder, 1)

	fillRect(dst, u.lay.title, th.ToolbarBackground)
	title := "Cartoon Lab - " + u.title
	drawLabel(dst, title, image.Pt(pad, u.lay.title.Min.Y+16), th.Foreground, u.lay.title.Max.X)
	fillRect(dst, u.lay.toolbar, th.ToolbarBackground)
	fillRect(dst, u.lay.panel, th.PanelBackground)
	fillRect(dst, u.lay.timeline, th.PanelBackground)
	fillRect(dst, u.lay.status, th.ToolbarBackground)

	for _, c := range u.buildControls() {
		state := StateDefault
		if u.hover.In(c.rect) {
			state = StateHover
		}
		if c.rect == u.pressed {
			state = StatePressed
		}
		c.Draw(dst, th, state)
	}

	drawLabel(dst, u.statusText(), image.Pt(pad, u.lay.status.Min.Y+16), th.Foreground, u.lay.status.Max.X)

	if u.message != "" && u.now().Before(u.messageUntil) {
		u.drawBanner(dst, u.message, th.PromptBackground, th.PromptText)
	}
	if u.modal != nil {
		u.modal.draw(dst, th)
	}
}

func (u *UI) statusText() string {
	ss := u.st.Session()
	layer := u.st.Layers()[u.st.ActiveLayer()]
	s := fmt.Sprintf("%s  %s  size %d  layer %q", ss.Tool, tools.FormatColor(ss.Color), ss.Size, layer.Name)
	if pts := u.st.PendingPolygon(); len(pts) > 0 {
		s += fmt.Sprintf("  polygon %d/%d", len(pts), ss.PolygonSides)
	}
	if u.st.Playing() {
		s += "  playing"
	}
	return s + fmt.Sprintf("  zoom %.0f%%", u.zoom*100)
}

func (u *UI) drawBanner(dst *image.RGBA, msg string, bg, fg color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	m := messageFace.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	c := u.lay.canvas
	px := c.Min.X + (c.Dx()-wmsg)/2
	py := c.Min.Y + (c.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, draw.Over)
	drawRect(dst, rect, u.th.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
