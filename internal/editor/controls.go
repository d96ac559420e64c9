package editor

import (
	"fmt"
	"image"
	"strings"

	"github.com/example/cartoonlab/internal/tools"
)

var toolLabels = map[tools.Tool]string{
	tools.ToolBrush:     "Brush",
	tools.ToolLine:      "Line",
	tools.ToolEraser:    "Eraser",
	tools.ToolRectangle: "Rect",
	tools.ToolCircle:    "Circle",
	tools.ToolPolygon:   "Polygon",
	tools.ToolGradient:  "Gradient",
	tools.ToolSpray:     "Spray",
	tools.ToolFill:      "Fill",
	tools.ToolText:      "Text",
}

// buildControls lays out every control for the current studio state.
func (u *UI) buildControls() []*control {
	var out []*control
	out = append(out, u.titleControls()...)
	out = append(out, u.toolbarControls()...)
	out = append(out, u.panelControls()...)
	out = append(out, u.timelineControls()...)
	u.controls = out
	return out
}

func (u *UI) trigger(action string) func() {
	return func() { u.Trigger(action) }
}

func (u *UI) titleControls() []*control {
	labels := []struct{ label, action string }{
		{"Undo", "undo"}, {"Redo", "redo"}, {"Save", "save"}, {"Export", "export"}, {"Copy", "copy"}, {"Paste", "paste"},
	}
	var out []*control
	x := u.lay.title.Max.X - pad
	for i := len(labels) - 1; i >= 0; i-- {
		w := measureLabel(labels[i].label) + 10
		r := image.Rect(x-w, u.lay.title.Min.Y+2, x, u.lay.title.Max.Y-2)
		c := &control{rect: r, label: labels[i].label, action: u.trigger(labels[i].action)}
		switch labels[i].action {
		case "undo":
			c.muted = !u.st.CanUndo()
		case "redo":
			c.muted = !u.st.CanRedo()
		}
		out = append(out, c)
		x = r.Min.X - 2
	}
	return out
}

func (u *UI) toolbarControls() []*control {
	ss := u.st.Session()
	var out []*control
	x0, x1 := u.lay.toolbar.Min.X+pad, u.lay.toolbar.Max.X-pad
	y := u.lay.toolbar.Min.Y + pad
	for i, t := range tools.Tools() {
		t := t
		key := (i + 1) % 10
		out = append(out, &control{
			rect:   image.Rect(x0, y, x1, y+rowHeight-2),
			label:  fmt.Sprintf("%d %s", key, toolLabels[t]),
			active: ss.Tool == t,
			action: func() { u.selectTool(t) },
		})
		y += rowHeight
	}

	y += pad
	x := x0
	for _, p := range tools.Presets() {
		col := p.Color
		out = append(out, &control{
			rect:   image.Rect(x, y, x+swatchSize, y+swatchSize),
			swatch: &col,
			active: ss.Color == col,
			action: func() { u.setSession(func(s *tools.Session) { s.Color = col }) },
		})
		x += swatchSize + 4
		if x+swatchSize > x1 {
			x = x0
			y += swatchSize + 4
		}
	}
	if x != x0 {
		y += swatchSize + 4
	}

	stepper := func(label, dec, inc string) {
		out = append(out,
			&control{rect: image.Rect(x0, y, x0+18, y+rowHeight-2), label: "-", action: u.trigger(dec)},
			&control{rect: image.Rect(x0+20, y, x1-20, y+rowHeight-2), label: label},
			&control{rect: image.Rect(x1-18, y, x1, y+rowHeight-2), label: "+", action: u.trigger(inc)},
		)
		y += rowHeight
	}
	y += pad
	stepper(fmt.Sprintf("Size %d", ss.Size), "size-", "size+")
	stepper(fmt.Sprintf("Alpha %d%%", int(ss.Opacity*100+0.5)), "alpha-", "alpha+")
	switch ss.Tool {
	case tools.ToolPolygon:
		stepper(fmt.Sprintf("Sides %d", ss.PolygonSides), "sides-", "sides+")
	case tools.ToolBrush, tools.ToolLine, tools.ToolEraser:
		out = append(out, &control{
			rect:   image.Rect(x0, y, x1, y+rowHeight-2),
			label:  "Cap " + ss.Cap.String(),
			action: u.trigger("cap"),
		})
	}
	return out
}

func (u *UI) panelControls() []*control {
	var out []*control
	p := u.lay.panel
	x0, x1 := p.Min.X+pad, p.Max.X-pad
	y := p.Min.Y + pad

	row := func(labels [][2]string) {
		w := (x1 - x0 - 2*(len(labels)-1)) / len(labels)
		x := x0
		for _, l := range labels {
			out = append(out, &control{rect: image.Rect(x, y, x+w, y+rowHeight-2), label: l[0], action: u.trigger(l[1])})
			x += w + 2
		}
		y += rowHeight
	}
	row([][2]string{{"+Layer", "addlayer"}, {"Merge", "merge"}, {"Clear", "clear"}})
	row([][2]string{{"Op-", "opacity-"}, {"Op+", "opacity+"}, {"Blend", "blend"}, {"Name", "rename"}})
	y += pad

	ls := u.st.Layers()
	for i := len(ls) - 1; i >= 0 && y+layerRow <= p.Max.Y; i-- {
		l := ls[i]
		idx := l.Index
		eye := "o"
		if !l.Visible {
			eye = "-"
		}
		out = append(out, &control{
			rect:  image.Rect(x0, y, x0+18, y+layerRow-2),
			label: eye,
			action: func() {
				_, err := u.st.ToggleVisibility(idx)
				u.report(err)
			},
		})
		detail := fmt.Sprintf("%d%% %s", int(l.Opacity*100+0.5), l.Blend)
		out = append(out, &control{
			rect:   image.Rect(x0+20, y, x1, y+layerRow-2),
			label:  truncate(l.Name, 12) + " " + detail,
			thumb:  thumbOf(l.Thumbnail),
			active: l.Active,
			muted:  !l.Visible,
			action: func() { u.report(u.st.SelectLayer(idx)) },
		})
		y += layerRow
	}
	return out
}

func (u *UI) timelineControls() []*control {
	var out []*control
	t := u.lay.timeline
	x := t.Min.X + pad
	y := t.Min.Y + pad
	play := "Play"
	if u.st.Playing() {
		play = "Stop"
	}
	for _, b := range [][2]string{{"+Frame", "addframe"}, {"Save", "saveframe"}, {play, "play"}} {
		out = append(out, &control{rect: image.Rect(x, y, x+56, y+rowHeight-2), label: b[0], action: u.trigger(b[1])})
		y += rowHeight + 2
	}
	x += 56 + pad
	for _, f := range u.st.Frames() {
		if x+frameThumbW > t.Max.X {
			break
		}
		idx := f.Index
		name := truncate(f.Name, 10)
		if f.Stale {
			name = "stale"
		}
		out = append(out, &control{
			rect:    image.Rect(x, t.Min.Y+pad, x+frameThumbW+4, t.Max.Y-pad),
			label:   name,
			thumb:   thumbOf(f.Thumbnail),
			active:  f.Current,
			muted:   f.Stale,
			stacked: true,
			action:  func() { u.report(u.st.SetActiveFrame(idx)) },
		})
		x += frameThumbW + 8
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "~"
}
