package editor

import (
	"image"
	"strings"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/cartoonlab/internal/frames"
	"github.com/example/cartoonlab/internal/loop/looptest"
	"github.com/example/cartoonlab/internal/studio"
	"github.com/example/cartoonlab/internal/theme"
	"github.com/example/cartoonlab/internal/tools"
)

func newUI(t *testing.T, hooks Hooks) (*UI, *studio.Studio, *looptest.Manual) {
	t.Helper()
	m := &looptest.Manual{}
	st := studio.New(m, studio.WithSize(100, 100))
	return NewUI(st, theme.Default(), hooks, 1100, 800), st, m
}

func press(r rune, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Modifiers: mods, Direction: key.DirPress}
}

func pressCode(c key.Code) key.Event {
	return key.Event{Rune: -1, Code: c, Direction: key.DirPress}
}

func click(u *UI, p image.Point) {
	u.Mouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	u.Mouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func findControl(t *testing.T, u *UI, label string) *control {
	t.Helper()
	for _, c := range u.buildControls() {
		if strings.Contains(c.label, label) && c.action != nil {
			return c
		}
	}
	t.Fatalf("no control labelled %q", label)
	return nil
}

func centre(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestLayoutPlacesCanvasBetweenPanels(t *testing.T) {
	u, _, _ := newUI(t, Hooks{})
	if u.zoom != 1 {
		t.Fatalf("zoom = %v", u.zoom)
	}
	if u.imgRect.Min.X < toolbarWidth || u.imgRect.Max.X > u.lay.panel.Min.X {
		t.Fatalf("canvas %v overlaps panels", u.imgRect)
	}
	if got := toCanvas(u.imgRect.Min.Add(image.Pt(10, 20)), u.imgRect, u.zoom); got != image.Pt(10, 20) {
		t.Fatalf("toCanvas = %v", got)
	}

	u.Resize(toolbarWidth+panelWidth+60, 400)
	if u.zoom >= 1 || u.imgRect.Dx() > u.lay.canvas.Dx() {
		t.Fatalf("small window not zoomed out: zoom %v rect %v", u.zoom, u.imgRect)
	}
}

func TestDigitKeysSelectTools(t *testing.T) {
	u, st, _ := newUI(t, Hooks{})
	u.Key(press('5', 0))
	if st.Session().Tool != tools.ToolCircle {
		t.Fatalf("tool = %v", st.Session().Tool)
	}
	u.Key(press('0', 0))
	if st.Session().Tool != tools.ToolText {
		t.Fatalf("tool = %v", st.Session().Tool)
	}
}

func TestToolbarClickSelectsTool(t *testing.T) {
	u, st, _ := newUI(t, Hooks{})
	click(u, centre(findControl(t, u, "Polygon").rect))
	if st.Session().Tool != tools.ToolPolygon {
		t.Fatalf("tool = %v", st.Session().Tool)
	}
	var label image.Rectangle
	for _, c := range u.buildControls() {
		if strings.HasPrefix(c.label, "Sides") {
			label = c.rect
		}
	}
	if label.Empty() {
		t.Fatalf("no sides stepper for polygon tool")
	}
	for _, c := range u.buildControls() {
		if c.label == "+" && c.rect.Min.Y == label.Min.Y {
			click(u, centre(c.rect))
		}
	}
	if st.Session().PolygonSides != 6 {
		t.Fatalf("sides = %d", st.Session().PolygonSides)
	}
}

func TestDrawAndUndoThroughUI(t *testing.T) {
	u, st, m := newUI(t, Hooks{})
	p := u.imgRect.Min.Add(image.Pt(50, 50))
	click(u, p)
	if got := st.Stack().Active().Surface.NRGBAAt(50, 50); got != tools.DefaultColor {
		t.Fatalf("brush dot = %v", got)
	}
	u.Key(key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress})
	m.Flush()
	if got := st.Stack().Active().Surface.NRGBAAt(50, 50); got.A != 0 {
		t.Fatalf("undo left %v", got)
	}
	u.Key(key.Event{Rune: 'y', Code: key.CodeY, Modifiers: key.ModControl, Direction: key.DirPress})
	m.Flush()
	if got := st.Stack().Active().Surface.NRGBAAt(50, 50); got != tools.DefaultColor {
		t.Fatalf("redo = %v", got)
	}
}

func TestHooksFireFromKeysAndButtons(t *testing.T) {
	var saved, exported, quit int
	u, _, _ := newUI(t, Hooks{
		Save:   func() { saved++ },
		Export: func() { exported++ },
		Quit:   func() { quit++ },
	})
	u.Key(press('s', key.ModControl))
	click(u, centre(findControl(t, u, "Export").rect))
	u.Key(press('q', 0))
	u.Key(press('v', key.ModControl)) // nil hook is skipped
	if saved != 1 || exported != 1 || quit != 1 {
		t.Fatalf("save %d export %d quit %d", saved, exported, quit)
	}
}

func TestLayerPanelActions(t *testing.T) {
	u, st, _ := newUI(t, Hooks{})
	u.Trigger("addlayer")
	if len(st.Layers()) != 3 || st.ActiveLayer() != 2 {
		t.Fatalf("layers %d active %d", len(st.Layers()), st.ActiveLayer())
	}
	u.Key(pressCode(key.CodeDownArrow))
	if st.ActiveLayer() != 1 {
		t.Fatalf("down arrow active %d", st.ActiveLayer())
	}
	u.Key(press(',', 0))
	if op := st.Layers()[1].Opacity; op < 0.89 || op > 0.91 {
		t.Fatalf("opacity %v", op)
	}
	u.Key(pressCode(key.CodeTab))
	if st.Layers()[1].Blend.String() != "multiply" {
		t.Fatalf("blend %v", st.Layers()[1].Blend)
	}
	u.Key(press('h', 0))
	if st.Layers()[1].Visible {
		t.Fatalf("h did not hide layer")
	}
}

func TestModalPrompt(t *testing.T) {
	u, _, _ := newUI(t, Hooks{})
	text, ok := u.Prompt("Name?", "Cat", func(done func() bool) {
		if u.modal == nil {
			t.Fatalf("modal not shown")
		}
		u.Key(pressCode(key.CodeDeleteBackspace))
		u.Key(press('r', 0))
		u.Key(pressCode(key.CodeReturnEnter))
		if !done() {
			t.Fatalf("enter did not close modal")
		}
	})
	if !ok || text != "Car" {
		t.Fatalf("prompt = %q %v", text, ok)
	}
	if u.modal != nil {
		t.Fatalf("modal left open")
	}

	if u.Confirm("Sure?", func(done func() bool) { u.Key(press('n', 0)) }) {
		t.Fatalf("n confirmed")
	}
	if !u.Confirm("Sure?", func(done func() bool) { u.Key(pressCode(key.CodeReturnEnter)) }) {
		t.Fatalf("enter declined")
	}
}

func TestStaleFrameIsReported(t *testing.T) {
	u, _, _ := newUI(t, Hooks{})
	now := time.Unix(100, 0)
	u.now = func() time.Time { return now }
	u.report(frames.ErrStaleFrame)
	if !strings.Contains(u.message, "stale") || !u.messageUntil.After(now) {
		t.Fatalf("message %q until %v", u.message, u.messageUntil)
	}
	u.message = ""
	u.report(studio.ErrAborted)
	if u.message != "" {
		t.Fatalf("aborted operation flashed %q", u.message)
	}
}

func TestFramesTimeline(t *testing.T) {
	u, st, _ := newUI(t, Hooks{})
	u.Key(press('f', 0))
	u.Key(press('f', 0))
	if len(st.Frames()) != 2 {
		t.Fatalf("frames %d", len(st.Frames()))
	}
	found := 0
	for _, c := range u.buildControls() {
		if c.stacked {
			found++
		}
	}
	if found != 2 {
		t.Fatalf("timeline shows %d frames", found)
	}
	u.Key(press('p', 0))
	if !st.Playing() {
		t.Fatalf("p did not start playback")
	}
	u.Key(press('p', 0))
	if st.Playing() {
		t.Fatalf("p did not stop playback")
	}
}

func TestDrawRendersChrome(t *testing.T) {
	u, _, _ := newUI(t, Hooks{})
	u.Flash("hello")
	u.modal = &modal{message: "Enter layer name:", text: "Layer 3"}
	dst := image.NewRGBA(image.Rect(0, 0, 1100, 800))
	u.Draw(dst)
	th := theme.Default()
	if got := dst.RGBAAt(1, u.lay.status.Min.Y-2); got != th.ToolbarBackground {
		t.Fatalf("toolbar background = %v", got)
	}
	if got := dst.RGBAAt(u.lay.panel.Max.X-1, u.lay.panel.Max.Y-1); got != th.PanelBackground {
		t.Fatalf("panel background = %v", got)
	}
}
