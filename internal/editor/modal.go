package editor

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/cartoonlab/internal/theme"
)

// modal is an in-window prompt or yes/no question. The studio asks its
// questions synchronously, so the window pumps its own events into the
// modal until done is set.
type modal struct {
	message string
	text    string
	confirm bool
	done    bool
	ok      bool
}

func (m *modal) key(e key.Event) {
	if e.Direction != key.DirPress || m.done {
		return
	}
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		m.done, m.ok = true, true
		return
	case key.CodeEscape:
		m.done, m.ok = true, false
		return
	case key.CodeDeleteBackspace:
		if !m.confirm && len(m.text) > 0 {
			r := []rune(m.text)
			m.text = string(r[:len(r)-1])
		}
		return
	}
	if m.confirm {
		switch e.Rune {
		case 'y', 'Y':
			m.done, m.ok = true, true
		case 'n', 'N':
			m.done, m.ok = true, false
		}
		return
	}
	if e.Rune >= ' ' && e.Modifiers&key.ModControl == 0 {
		m.text += string(e.Rune)
	}
}

func (m *modal) draw(dst *image.RGBA, th *theme.Theme) {
	b := dst.Bounds()
	w := min(480, b.Dx()-40)
	h := 96
	r := image.Rect(0, 0, w, h).Add(image.Pt(b.Min.X+(b.Dx()-w)/2, b.Min.Y+(b.Dy()-h)/2))
	draw.Draw(dst, r, image.NewUniform(th.PromptBackground), image.Point{}, draw.Over)
	drawRect(dst, r, th.Accent, 2)
	drawLabel(dst, m.message, image.Pt(r.Min.X+12, r.Min.Y+22), th.PromptText, r.Max.X-12)

	line := "[Enter] yes   [Esc] no"
	if !m.confirm {
		field := image.Rect(r.Min.X+12, r.Min.Y+34, r.Max.X-12, r.Min.Y+64)
		fillRect(dst, field, th.PanelBackground)
		drawRect(dst, field, th.ButtonBorder, 1)
		d := &font.Drawer{Dst: dst.SubImage(field.Inset(2)).(*image.RGBA), Src: image.NewUniform(th.PromptText), Face: messageFace}
		d.Dot = fixed.P(field.Min.X+6, field.Max.Y-8)
		d.DrawString(m.text + "|")
		line = "[Enter] accept   [Esc] cancel"
	}
	drawLabel(dst, line, image.Pt(r.Min.X+12, r.Max.Y-10), th.PromptText, r.Max.X-12)
}

// Prompt opens a text prompt pre-filled with def. pump runs events until
// the modal closes.
func (u *UI) Prompt(message, def string, pump func(done func() bool)) (string, bool) {
	m := &modal{message: message, text: def}
	u.modal = m
	defer func() { u.modal = nil }()
	pump(func() bool { return m.done })
	return m.text, m.ok
}

// Confirm opens a yes/no question.
func (u *UI) Confirm(message string, pump func(done func() bool)) bool {
	m := &modal{message: message, confirm: true}
	u.modal = m
	defer func() { u.modal = nil }()
	pump(func() bool { return m.done })
	return m.ok
}
