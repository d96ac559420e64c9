package studio

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/example/cartoonlab/internal/frames"
	"github.com/example/cartoonlab/internal/history"
	"github.com/example/cartoonlab/internal/loop/looptest"
	"github.com/example/cartoonlab/internal/raster"
	"github.com/example/cartoonlab/internal/tools"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func newStudio(t *testing.T, opts ...Option) (*Studio, *looptest.Manual) {
	t.Helper()
	m := &looptest.Manual{}
	opts = append([]Option{WithSize(100, 100), WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return New(m, opts...), m
}

func useTool(s *Studio, tool tools.Tool) {
	ss := s.Session()
	ss.Tool = tool
	ss.Color = red
	s.SetSession(ss)
}

func drawCircle(t *testing.T, s *Studio, c image.Point, r int) {
	t.Helper()
	useTool(s, tools.ToolCircle)
	if err := s.PointerDown(c); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	s.PointerMove(c.Add(image.Pt(r/2, 0)))
	s.PointerUp(c.Add(image.Pt(r, 0)))
}

func TestCircleUndoRedoScenario(t *testing.T) {
	s, m := newStudio(t)
	drawCircle(t, s, image.Pt(50, 50), 10)
	view := s.View()
	if got := view.NRGBAAt(50, 50); got != red {
		t.Fatalf("composite centre = %v", got)
	}
	if got := view.NRGBAAt(0, 0); got != white {
		t.Fatalf("composite corner = %v", got)
	}
	drawn := s.Stack().Active().Surface.Clone()

	if !s.Undo() {
		t.Fatalf("undo refused")
	}
	m.Flush()
	if got := s.Stack().Active().Surface.NRGBAAt(50, 50); got.A != 0 {
		t.Fatalf("undo left pixel %v", got)
	}
	if !s.CanRedo() {
		t.Fatalf("redo unavailable")
	}
	if !s.Redo() {
		t.Fatalf("redo refused")
	}
	m.Flush()
	if !s.Stack().Active().Surface.Equal(drawn) {
		t.Fatalf("redo is not bit-identical")
	}
}

func TestUndoAtBoundary(t *testing.T) {
	s, _ := newStudio(t)
	if s.CanUndo() || s.Undo() {
		t.Fatalf("fresh studio allowed undo")
	}
	if s.Redo() {
		t.Fatalf("fresh studio allowed redo")
	}
}

func TestFailedUndoKeepsHistoryInStep(t *testing.T) {
	s, m := newStudio(t)
	a := s.Stack().Active()
	mgr := s.book.Manager(a.ID)
	mgr.Push(history.Entry{LayerID: a.ID, Snapshot: raster.Snapshot("not a png")})
	drawCircle(t, s, image.Pt(20, 20), 5)
	before := a.Surface.Clone()
	undo, redo := mgr.Len()

	if !s.Undo() {
		t.Fatalf("undo refused")
	}
	m.Flush()
	if !a.Surface.Equal(before) {
		t.Fatalf("failed restore changed the layer")
	}
	if u, r := mgr.Len(); u != undo || r != redo {
		t.Fatalf("history = %d/%d after failed undo, want %d/%d", u, r, undo, redo)
	}
	if s.CanRedo() {
		t.Fatalf("failed undo left a redo entry")
	}
}

func TestOutOfOrderRestoreDropped(t *testing.T) {
	s, m := newStudio(t)
	drawCircle(t, s, image.Pt(20, 20), 5)
	drawCircle(t, s, image.Pt(70, 70), 5)
	s.Undo()
	s.Undo()
	m.Reverse()
	m.Flush()
	surf := s.Stack().Active().Surface
	if surf.NRGBAAt(20, 20).A != 0 || surf.NRGBAAt(70, 70).A != 0 {
		t.Fatalf("stale restore applied after the newer one")
	}
}

func TestMutationSettlesPendingRestore(t *testing.T) {
	s, m := newStudio(t)
	drawCircle(t, s, image.Pt(20, 20), 5)
	s.Undo()
	// Draw before the undo's completion has run on the loop.
	drawCircle(t, s, image.Pt(70, 70), 5)
	m.Flush()
	surf := s.Stack().Active().Surface
	if surf.NRGBAAt(20, 20).A != 0 {
		t.Fatalf("undo was not applied before the new stroke")
	}
	if surf.NRGBAAt(70, 70) != red {
		t.Fatalf("late restore overwrote the new stroke")
	}
	if s.CanRedo() {
		t.Fatalf("new stroke did not clear redo")
	}
}

func TestTextPromptCancelled(t *testing.T) {
	s, _ := newStudio(t, WithPrompter(PromptFunc(func(string, string) (string, bool) { return "", false })))
	useTool(s, tools.ToolText)
	before := s.Stack().Active().Surface.Clone()
	if err := s.PointerDown(image.Pt(10, 30)); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !s.Stack().Active().Surface.Equal(before) || s.CanUndo() {
		t.Fatalf("cancelled text mutated state")
	}
}

func TestTextStamp(t *testing.T) {
	s, _ := newStudio(t, WithPrompter(PromptFunc(func(_, def string) (string, bool) { return def, true })))
	useTool(s, tools.ToolText)
	if err := s.PointerDown(image.Pt(5, 40)); err != nil {
		t.Fatalf("text: %v", err)
	}
	if !s.CanUndo() {
		t.Fatalf("text stamp not recorded in history")
	}
}

func TestClearDeclined(t *testing.T) {
	s, _ := newStudio(t, WithConfirmer(ConfirmFunc(func(string) bool { return false })))
	drawCircle(t, s, image.Pt(50, 50), 10)
	if err := s.ClearLayer(); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if s.Stack().Active().Surface.NRGBAAt(50, 50) != red {
		t.Fatalf("declined clear erased pixels")
	}
	if err := s.MergeLayers(); !errors.Is(err, ErrAborted) || s.Stack().Len() != 2 {
		t.Fatalf("declined merge changed stack: %v", err)
	}
}

func TestAddLayerPromptDefault(t *testing.T) {
	var got string
	s, _ := newStudio(t, WithPrompter(PromptFunc(func(_, def string) (string, bool) {
		got = def
		return def, true
	})))
	i, err := s.AddLayer()
	if err != nil || i != 2 {
		t.Fatalf("add layer: %d %v", i, err)
	}
	if got != "Layer 3" || s.Layers()[2].Name != "Layer 3" || !s.Layers()[2].Active {
		t.Fatalf("unexpected default name %q", got)
	}
}

func TestGlobalHistoryRestoresOntoActiveLayer(t *testing.T) {
	s, m := newStudio(t)
	drawCircle(t, s, image.Pt(50, 50), 10)
	drawing := s.Stack().Active()
	s.AddLayerNamed("top")
	top := s.Stack().Active()
	top.Surface.Fill(red)

	if !s.Undo() {
		t.Fatalf("global history should be shared across layers")
	}
	m.Flush()
	if top.Surface.NRGBAAt(5, 5).A != 0 {
		t.Fatalf("undo did not restore onto the active layer")
	}
	if drawing.Surface.NRGBAAt(50, 50) != red {
		t.Fatalf("undo retargeted the layer that produced the history")
	}
}

func TestLayerScopedHistory(t *testing.T) {
	s, m := newStudio(t, WithHistoryScope(history.ScopeLayer))
	drawCircle(t, s, image.Pt(50, 50), 10)
	s.AddLayerNamed("top")
	if s.CanUndo() {
		t.Fatalf("new layer inherited history")
	}
	if err := s.SelectLayer(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !s.Undo() {
		t.Fatalf("drawing layer lost its history")
	}
	m.Flush()
	if s.Stack().Active().Surface.NRGBAAt(50, 50).A != 0 {
		t.Fatalf("undo did not restore the drawing layer")
	}
}

func TestMergeInvalidatesFrames(t *testing.T) {
	s, _ := newStudio(t)
	drawCircle(t, s, image.Pt(50, 50), 10)
	want := s.Composite()
	i := s.AddFrame()
	if err := s.MergeLayers(); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if s.Stack().Len() != 1 {
		t.Fatalf("merge left %d layers", s.Stack().Len())
	}
	got := s.Stack().Active().Surface.Image()
	if string(got.Pix) != string(want.Pix) {
		t.Fatalf("merged layer differs from composite")
	}
	if !s.Frames()[i].Stale {
		t.Fatalf("frame not marked stale")
	}
	if err := s.SetActiveFrame(i); !errors.Is(err, frames.ErrStaleFrame) {
		t.Fatalf("expected ErrStaleFrame, got %v", err)
	}
	if err := s.SaveFrame(i); err != nil {
		t.Fatalf("save frame: %v", err)
	}
	if err := s.SetActiveFrame(i); err != nil {
		t.Fatalf("re-saved frame: %v", err)
	}
}

func TestFrameSwitchRestoresLayers(t *testing.T) {
	s, m := newStudio(t)
	first := s.AddFrame()
	drawCircle(t, s, image.Pt(50, 50), 10)
	if err := s.SetActiveFrame(first); err != nil {
		t.Fatalf("set frame: %v", err)
	}
	m.Flush()
	if s.Stack().Active().Surface.NRGBAAt(50, 50).A != 0 {
		t.Fatalf("frame switch did not restore captured pixels")
	}
	if s.CanUndo() {
		t.Fatalf("history should restart after a frame switch")
	}
}

func TestPlayback(t *testing.T) {
	s, m := newStudio(t)
	if err := s.Play(0); !errors.Is(err, frames.ErrEmptyFrameSet) {
		t.Fatalf("expected ErrEmptyFrameSet, got %v", err)
	}
	if m.Active() != 0 {
		t.Fatalf("timer started without frames")
	}
	s.AddFrame()
	drawCircle(t, s, image.Pt(50, 50), 10)
	s.AddFrame()
	if err := s.Play(10 * time.Millisecond); err != nil {
		t.Fatalf("play: %v", err)
	}
	m.Tick()
	m.Flush()
	if s.Frames()[1].Current != true {
		t.Fatalf("playback did not advance")
	}
	s.Stop()
	if s.Playing() || m.Active() != 0 {
		t.Fatalf("stop left playback running")
	}
}

func TestCorruptFrameLeavesLayersUntouched(t *testing.T) {
	s, m := newStudio(t)
	i := s.AddFrame()
	f, _ := s.frames.Get(i)
	f.Layers[1].Snapshot = raster.Snapshot("garbage")
	drawCircle(t, s, image.Pt(50, 50), 10)
	if err := s.SetActiveFrame(i); err != nil {
		t.Fatalf("set frame: %v", err)
	}
	m.Flush()
	if s.Stack().Active().Surface.NRGBAAt(50, 50) != red {
		t.Fatalf("failed decode modified the layer")
	}
	if s.Restoring() {
		t.Fatalf("failed restore still pending")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	s, _ := newStudio(t)
	drawCircle(t, s, image.Pt(50, 50), 10)
	_ = s.SetLayerBlend(1, raster.BlendMultiply)
	_ = s.SetLayerOpacity(1, 0.5)
	s.AddFrame()
	doc := s.Document("mine")
	if doc.Name != "mine" || len(doc.Layers) != 2 || len(doc.Frames) != 1 || len(doc.Image) == 0 {
		t.Fatalf("unexpected document %+v", doc.Summary())
	}

	other, _ := newStudio(t, WithSize(10, 10))
	if err := other.Load(doc); err != nil {
		t.Fatalf("load: %v", err)
	}
	if w, h := other.Size(); w != 100 || h != 100 {
		t.Fatalf("size %dx%d", w, h)
	}
	ls := other.Layers()
	if ls[1].Blend != raster.BlendMultiply || ls[1].Opacity != 0.5 || ls[1].ID != doc.Layers[1].ID {
		t.Fatalf("layer attributes lost: %+v", ls[1])
	}
	if string(other.Export()) != string(s.Export()) {
		t.Fatalf("export differs after round trip")
	}
	if other.Frames()[0].Thumbnail == nil {
		t.Fatalf("frame thumbnail not rebuilt")
	}
}

func TestLoadClampsOpacity(t *testing.T) {
	s, _ := newStudio(t)
	doc := s.Document("edited")
	doc.Layers[0].Opacity = -2
	doc.Layers[1].Opacity = 7.5
	if err := s.Load(doc); err != nil {
		t.Fatalf("load: %v", err)
	}
	ls := s.Layers()
	if ls[0].Opacity != 0 || ls[1].Opacity != 1 {
		t.Fatalf("opacities = %v, %v; want 0, 1", ls[0].Opacity, ls[1].Opacity)
	}
}

func TestLoadRejectsCorruptLayer(t *testing.T) {
	s, _ := newStudio(t)
	doc := s.Document("x")
	doc.Layers[0].Data = []byte("nope")
	drawCircle(t, s, image.Pt(50, 50), 10)
	if err := s.Load(doc); !errors.Is(err, raster.ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure, got %v", err)
	}
	if s.Stack().Active().Surface.NRGBAAt(50, 50) != red {
		t.Fatalf("failed load changed the studio")
	}
}

func TestSprayCommitsOnce(t *testing.T) {
	s, m := newStudio(t)
	useTool(s, tools.ToolSpray)
	_ = s.PointerDown(image.Pt(50, 50))
	m.Tick()
	m.Tick()
	s.PointerUp(image.Pt(50, 50))
	undo, _ := s.book.Manager(s.Stack().Active().ID).Len()
	if undo != 2 {
		t.Fatalf("spray recorded %d entries", undo)
	}
	if m.Active() != 0 {
		t.Fatalf("spray timer survived pointer up")
	}
}

func TestPasteLayerIsUndoable(t *testing.T) {
	s, m := newStudio(t, WithHistoryScope(history.ScopeLayer))
	img := image.NewNRGBA(image.Rect(0, 0, 200, 10))
	for x := 0; x < 200; x++ {
		img.SetNRGBA(x, 0, red)
	}
	i := s.PasteLayer("Pasted", img)
	if i != 2 || s.Layers()[2].Name != "Pasted" {
		t.Fatalf("paste layer index %d", i)
	}
	if s.View().NRGBAAt(99, 0) != red {
		t.Fatalf("pasted pixels missing")
	}
	if !s.Undo() {
		t.Fatalf("paste not undoable")
	}
	m.Flush()
	if s.Stack().Active().Surface.NRGBAAt(0, 0).A != 0 {
		t.Fatalf("undo kept pasted pixels")
	}
}
