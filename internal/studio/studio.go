// Package studio ties the layer stack, tool engine, undo history and
// animation frames into a single editing session.
//
// A Studio is not safe for concurrent use. Every method must run on the
// goroutine of the loop.Executor it was created with.
package studio

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/frames"
	"github.com/example/cartoonlab/internal/history"
	"github.com/example/cartoonlab/internal/layers"
	"github.com/example/cartoonlab/internal/loop"
	"github.com/example/cartoonlab/internal/raster"
	"github.com/example/cartoonlab/internal/tools"
)

// Default canvas settings.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Studio is one open cartoon.
type Studio struct {
	exec loop.Executor

	width, height int
	background    color.NRGBA
	session       tools.Session
	historyCap    int
	scope         history.Scope
	frameDur      time.Duration
	prompter      Prompter
	confirmer     Confirmer
	onChange      func()
	rng           *rand.Rand

	stack  *layers.Stack
	engine *tools.Engine
	book   *history.Book
	frames *frames.Store

	gen     uint64
	pending *restore

	view   *raster.Surface
	cursor image.Point

	docID     string
	docName   string
	createdAt time.Time
}

// New creates a studio with the default Background and Drawing layers.
func New(exec loop.Executor, opts ...Option) *Studio {
	s := &Studio{
		exec:       exec,
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: color.NRGBA{255, 255, 255, 255},
		session:    tools.DefaultSession(),
		historyCap: history.DefaultCapacity,
		frameDur:   frames.DefaultDuration,
		prompter:   defaults{},
		confirmer:  defaults{},
	}
	for _, o := range opts {
		o(s)
	}
	s.width = max(s.width, 1)
	s.height = max(s.height, 1)
	s.engine = tools.NewEngine(exec, s.session)
	if s.rng != nil {
		s.engine.SetRand(s.rng)
	}
	s.engine.OnSpray = s.sprayed
	s.frames = frames.NewStore(exec, s.frameDur)
	s.view = raster.New(s.width, s.height)
	s.reset(layers.NewStack(s.width, s.height, s.background))
	return s
}

func (s *Studio) reset(st *layers.Stack) {
	s.cancelRestore()
	s.stack = st
	s.book = history.NewBook(s.scope, s.historyCap)
	s.trackAll()
}

// trackAll seeds history with the current pixels of every layer. Under
// global scope only the active layer is recorded.
func (s *Studio) trackAll() {
	if s.scope == history.ScopeGlobal {
		a := s.stack.Active()
		s.book.Track(history.Entry{LayerID: a.ID, Snapshot: a.Snapshot()})
		return
	}
	for _, l := range s.stack.Layers() {
		s.book.Track(history.Entry{LayerID: l.ID, Snapshot: l.Snapshot()})
	}
}

func (s *Studio) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Size returns the canvas dimensions.
func (s *Studio) Size() (int, int) { return s.width, s.height }

// Session returns the current drawing settings.
func (s *Studio) Session() tools.Session { return s.engine.Session() }

// SetSession replaces the drawing settings. An in-flight gesture is
// finished first.
func (s *Studio) SetSession(ss tools.Session) {
	s.finishGesture()
	s.engine.SetSession(ss)
	s.changed()
}

// HistoryScope returns how undo is partitioned.
func (s *Studio) HistoryScope() history.Scope { return s.scope }

// commit records the active layer's pixels after a completed tool action.
func (s *Studio) commit() {
	a := s.stack.Active()
	a.Touch()
	e := s.book.Manager(a.ID).Push(history.Entry{LayerID: a.ID, Snapshot: a.Snapshot()})
	logrus.WithFields(logrus.Fields{
		"layer_id": a.ID,
		"seq":      e.Seq,
	}).Debug("history snapshot")
}

// finishGesture cancels any drag or pending polygon, keeping whatever an
// incremental tool already painted.
func (s *Studio) finishGesture() {
	if s.engine.Cancel() == tools.OutcomeCommitted {
		s.commit()
	}
}

// PendingPolygon returns the vertices placed so far by the polygon tool.
func (s *Studio) PendingPolygon() []image.Point { return s.engine.PendingPolygon() }

// CancelGesture abandons the current drag or pending polygon. Pixels an
// incremental tool already painted are kept and recorded.
func (s *Studio) CancelGesture() {
	s.finishGesture()
	s.changed()
}

func (s *Studio) sprayed() {
	s.stack.Active().Touch()
	s.changed()
}

// PointerDown starts a gesture with the current tool at pt. The text tool
// prompts for its text here; a cancelled prompt returns ErrAborted.
func (s *Studio) PointerDown(pt image.Point) error {
	s.settle()
	s.cursor = pt
	a := s.stack.Active()
	if s.engine.Session().Tool == tools.ToolText {
		text, ok := s.prompter.Prompt("Enter text for your cartoon:", "Funny text here!")
		if !ok || text == "" {
			return ErrAborted
		}
		out, err := s.engine.StampText(a.Surface, pt, text)
		if err != nil {
			return fmt.Errorf("stamp text: %w", err)
		}
		if out == tools.OutcomeCommitted {
			s.commit()
			s.changed()
		}
		return nil
	}
	out, err := s.engine.Begin(a.Surface, pt)
	if err != nil {
		return err
	}
	if out == tools.OutcomeCommitted {
		s.commit()
	}
	a.Touch()
	s.changed()
	return nil
}

// PointerMove continues the current gesture. It also tracks the cursor for
// previews when no gesture is active.
func (s *Studio) PointerMove(pt image.Point) {
	s.cursor = pt
	if s.engine.Move(pt) == tools.OutcomeNone && len(s.engine.PendingPolygon()) == 0 {
		return
	}
	s.stack.Active().Touch()
	s.changed()
}

// PointerUp finishes the gesture at pt.
func (s *Studio) PointerUp(pt image.Point) {
	s.cursor = pt
	if s.engine.End(pt) == tools.OutcomeCommitted {
		s.commit()
	}
	s.changed()
}

// Click is a PointerDown immediately followed by PointerUp at pt.
func (s *Studio) Click(pt image.Point) error {
	if err := s.PointerDown(pt); err != nil {
		return err
	}
	s.PointerUp(pt)
	return nil
}

// CanUndo reports whether Undo would change anything.
func (s *Studio) CanUndo() bool { return s.book.Manager(s.stack.Active().ID).CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Studio) CanRedo() bool { return s.book.Manager(s.stack.Active().ID).CanRedo() }

// Undo restores the previous history state onto the active layer. It
// returns false at the history boundary. Pixels change once the snapshot
// has decoded.
func (s *Studio) Undo() bool {
	s.finishGesture()
	a := s.stack.Active()
	m := s.book.Manager(a.ID)
	e, ok := m.Undo()
	if !ok {
		return false
	}
	s.restore([]target{{layerID: a.ID, snap: e.Snapshot}}, nil, func() { m.Redo() })
	return true
}

// Redo re-applies the last undone state onto the active layer.
func (s *Studio) Redo() bool {
	s.finishGesture()
	a := s.stack.Active()
	m := s.book.Manager(a.ID)
	e, ok := m.Redo()
	if !ok {
		return false
	}
	s.restore([]target{{layerID: a.ID, snap: e.Snapshot}}, nil, func() { m.Undo() })
	return true
}

// View renders the composite plus any drag preview. The returned image is
// reused by the next call.
func (s *Studio) View() *image.NRGBA {
	s.stack.Composite(s.view)
	s.engine.Preview(s.view, s.cursor)
	return s.view.Image()
}

// Composite returns a fresh flattened image of the visible layers.
func (s *Studio) Composite() *image.NRGBA { return s.stack.CompositeImage() }

// Export returns the flattened canvas as PNG bytes.
func (s *Studio) Export() []byte {
	s.settle()
	return raster.Encode(s.stack.CompositeImage())
}
