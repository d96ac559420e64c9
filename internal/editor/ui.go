// Package editor is the desktop cartoon editor: a shiny window driving a
// studio.Studio on the window's event goroutine.
package editor

import (
	"errors"
	"fmt"
	"image"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/cartoonlab/internal/frames"
	"github.com/example/cartoonlab/internal/raster"
	"github.com/example/cartoonlab/internal/studio"
	"github.com/example/cartoonlab/internal/theme"
	"github.com/example/cartoonlab/internal/tools"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Hooks are the side effects the editor cannot perform through the studio
// alone. Nil hooks are skipped.
type Hooks struct {
	Save   func()
	Export func()
	Copy   func()
	Paste  func()
	Quit   func()
}

// UI is the editor's input and layout state. It is independent of the
// window so it can be driven directly in tests.
type UI struct {
	st    *studio.Studio
	th    *theme.Theme
	hooks Hooks
	now   func() time.Time

	lay      layout
	zoom     float64
	imgRect  image.Rectangle
	hover    image.Point
	drawing  bool
	pressed  image.Rectangle
	controls []*control

	message      string
	messageUntil time.Time
	modal        *modal
	title        string

	keyboard map[KeyShortcut]string
	actions  map[string]func()
}

// NewUI creates the editor state for st sized for a width x height window.
func NewUI(st *studio.Studio, th *theme.Theme, hooks Hooks, width, height int) *UI {
	if th == nil {
		th = theme.Default()
	}
	u := &UI{st: st, th: th, hooks: hooks, now: time.Now, title: "Untitled"}
	u.actions = u.buildActions()
	u.keyboard = defaultKeyboard()
	u.Resize(width, height)
	return u
}

// SetTitle sets the document name shown in the title bar.
func (u *UI) SetTitle(name string) { u.title = name }

// Flash shows msg over the canvas for two seconds.
func (u *UI) Flash(msg string) {
	u.message = msg
	u.messageUntil = u.now().Add(2 * time.Second)
	logrus.Debug(msg)
}

// Resize recomputes the layout for a new window size.
func (u *UI) Resize(width, height int) {
	u.lay = newLayout(width, height)
	w, h := u.st.Size()
	u.zoom = fitZoom(w, h, u.lay.canvas.Inset(pad))
	u.imgRect = imageRect(w, h, u.lay.canvas, u.zoom)
}

func (u *UI) report(err error) {
	switch {
	case err == nil, errors.Is(err, studio.ErrAborted):
	case errors.Is(err, frames.ErrStaleFrame):
		u.Flash("frame is stale: save it again")
	case errors.Is(err, frames.ErrEmptyFrameSet):
		u.Flash("add a frame first")
	default:
		u.Flash(err.Error())
	}
}

func (u *UI) setSession(fn func(*tools.Session)) {
	ss := u.st.Session()
	fn(&ss)
	u.st.SetSession(ss.Normalize())
}

func (u *UI) selectTool(t tools.Tool) {
	u.setSession(func(s *tools.Session) { s.Tool = t })
}

func (u *UI) buildActions() map[string]func() {
	layerStep := func(delta int) func() {
		return func() {
			n := len(u.st.Layers())
			u.report(u.st.SelectLayer(min(max(u.st.ActiveLayer()+delta, 0), n-1)))
		}
	}
	frameStep := func(delta int) func() {
		return func() {
			fs := u.st.Frames()
			if len(fs) == 0 {
				return
			}
			cur := 0
			for _, f := range fs {
				if f.Current {
					cur = f.Index
				}
			}
			u.report(u.st.SetActiveFrame((cur + delta + len(fs)) % len(fs)))
		}
	}
	return map[string]func(){
		"undo": func() {
			if !u.st.Undo() {
				u.Flash("nothing to undo")
			}
		},
		"redo": func() {
			if !u.st.Redo() {
				u.Flash("nothing to redo")
			}
		},
		"save":   func() { call(u.hooks.Save) },
		"export": func() { call(u.hooks.Export) },
		"copy":   func() { call(u.hooks.Copy) },
		"paste":  func() { call(u.hooks.Paste) },
		"quit":   func() { call(u.hooks.Quit) },
		"addlayer": func() {
			_, err := u.st.AddLayer()
			u.report(err)
		},
		"merge":  func() { u.report(u.st.MergeLayers()) },
		"clear":  func() { u.report(u.st.ClearLayer()) },
		"rename": func() { u.report(u.st.RenameLayer(u.st.ActiveLayer())) },
		"toggle": func() {
			_, err := u.st.ToggleVisibility(u.st.ActiveLayer())
			u.report(err)
		},
		"layerup":   layerStep(1),
		"layerdown": layerStep(-1),
		"opacity-":  func() { u.stepOpacity(-0.1) },
		"opacity+":  func() { u.stepOpacity(0.1) },
		"blend":     u.cycleBlend,
		"size-":     func() { u.setSession(func(s *tools.Session) { s.Size = max(s.Size-1, 1) }) },
		"size+":     func() { u.setSession(func(s *tools.Session) { s.Size++ }) },
		"alpha-":    func() { u.setSession(func(s *tools.Session) { s.Opacity = max(s.Opacity-0.1, 0.1) }) },
		"alpha+":    func() { u.setSession(func(s *tools.Session) { s.Opacity = min(s.Opacity+0.1, 1) }) },
		"sides-": func() {
			u.setSession(func(s *tools.Session) { s.PolygonSides = max(s.PolygonSides-1, tools.MinPolygonSides) })
		},
		"sides+": func() {
			u.setSession(func(s *tools.Session) { s.PolygonSides = min(s.PolygonSides+1, tools.MaxPolygonSides) })
		},
		"cap": func() {
			u.setSession(func(s *tools.Session) {
				if s.Cap == raster.CapRound {
					s.Cap = raster.CapSquare
				} else {
					s.Cap = raster.CapRound
				}
			})
		},
		"addframe": func() {
			i := u.st.AddFrame()
			u.Flash(fmt.Sprintf("frame %d added", i+1))
		},
		"saveframe": func() {
			for _, f := range u.st.Frames() {
				if f.Current {
					u.report(u.st.SaveFrame(f.Index))
					return
				}
			}
			u.Flash("no frame selected")
		},
		"nextframe": frameStep(1),
		"prevframe": frameStep(-1),
		"play": func() {
			if u.st.Playing() {
				u.st.Stop()
				return
			}
			u.report(u.st.Play(0))
		},
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func (u *UI) stepOpacity(d float64) {
	i := u.st.ActiveLayer()
	v := u.st.Layers()[i].Opacity + d
	u.report(u.st.SetLayerOpacity(i, min(max(v, 0), 1)))
}

func (u *UI) cycleBlend() {
	i := u.st.ActiveLayer()
	modes := raster.BlendModes()
	cur := u.st.Layers()[i].Blend
	next := modes[0]
	for j, m := range modes {
		if m == cur {
			next = modes[(j+1)%len(modes)]
		}
	}
	u.report(u.st.SetLayerBlend(i, next))
}

func defaultKeyboard() map[KeyShortcut]string {
	return map[KeyShortcut]string{
		{Rune: 'z', Modifiers: key.ModControl}:                "undo",
		{Rune: 'y', Modifiers: key.ModControl}:                "redo",
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift}: "redo",
		{Rune: 's', Modifiers: key.ModControl}:                "save",
		{Rune: 'e', Modifiers: key.ModControl}:                "export",
		{Rune: 'c', Modifiers: key.ModControl}:                "copy",
		{Rune: 'v', Modifiers: key.ModControl}:                "paste",
		{Rune: 'l', Modifiers: key.ModControl}:                "addlayer",
		{Rune: 'm', Modifiers: key.ModControl}:                "merge",
		{Rune: 'r', Modifiers: key.ModControl}:                "rename",
		{Code: key.CodeDeleteForward}:                         "clear",
		{Rune: 'h'}:                                           "toggle",
		{Rune: 'q'}:                                           "quit",
		{Code: key.CodeUpArrow}:                               "layerup",
		{Code: key.CodeDownArrow}:                             "layerdown",
		{Code: key.CodeLeftArrow}:                             "prevframe",
		{Code: key.CodeRightArrow}:                            "nextframe",
		{Rune: ','}:                                           "opacity-",
		{Rune: '.'}:                                           "opacity+",
		{Code: key.CodeTab}:                                   "blend",
		{Rune: '['}:                                           "size-",
		{Rune: ']'}:                                           "size+",
		{Rune: 'f'}:                                           "addframe",
		{Rune: 'f', Modifiers: key.ModShift}:                  "saveframe",
		{Rune: 'p'}:                                           "play",
	}
}

// Trigger runs a named action. Unknown names are ignored.
func (u *UI) Trigger(action string) {
	if fn, ok := u.actions[action]; ok {
		fn()
	}
}

// Key handles a keyboard event. It reports whether the window should
// repaint.
func (u *UI) Key(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if u.modal != nil {
		u.modal.key(e)
		return true
	}
	if e.Code == key.CodeEscape {
		u.st.CancelGesture()
		u.drawing = false
		return true
	}
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	r := unicode.ToLower(e.Rune)
	if action, ok := u.keyboard[KeyShortcut{Rune: r, Modifiers: mods}]; ok && r > 0 {
		u.Trigger(action)
		return true
	}
	if action, ok := u.keyboard[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok && e.Code != key.CodeUnknown {
		u.Trigger(action)
		return true
	}
	if mods == 0 && r >= '0' && r <= '9' {
		i := int(r - '1')
		if r == '0' {
			i = 9
		}
		if all := tools.Tools(); i < len(all) {
			u.selectTool(all[i])
			return true
		}
	}
	return false
}

// Mouse handles a pointer event. It reports whether the window should
// repaint.
func (u *UI) Mouse(e mouse.Event) bool {
	if u.modal != nil {
		return false
	}
	p := image.Pt(int(e.X), int(e.Y))
	u.hover = p
	if u.message != "" && e.Direction == mouse.DirPress && u.now().Before(u.messageUntil) {
		u.messageUntil = time.Time{}
	}
	cp := toCanvas(p, u.imgRect, u.zoom)
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		if p.In(u.imgRect) {
			u.drawing = true
			u.report(u.st.PointerDown(cp))
			return true
		}
		u.pressed = image.Rectangle{}
		if c := u.controlAt(p); c != nil {
			u.pressed = c.rect
		}
		return true
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if u.drawing {
			u.drawing = false
			u.st.PointerUp(cp)
			return true
		}
		pressed := u.pressed
		u.pressed = image.Rectangle{}
		if c := u.controlAt(p); c != nil && c.rect == pressed {
			c.Activate()
		}
		return true
	case e.Direction == mouse.DirNone:
		if u.drawing || p.In(u.imgRect) {
			u.st.PointerMove(cp)
		}
		return true
	}
	return false
}

func (u *UI) controlAt(p image.Point) *control {
	for _, c := range u.buildControls() {
		if p.In(c.rect) && c.action != nil {
			return c
		}
	}
	return nil
}
