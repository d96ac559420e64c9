package tools

import (
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/example/cartoonlab/internal/loop"
	"github.com/example/cartoonlab/internal/raster"
)

// Outcome reports what a gesture step did to the target surface.
type Outcome int

const (
	// OutcomeNone means nothing was drawn and nothing is in progress.
	OutcomeNone Outcome = iota
	// OutcomePending means a gesture is underway; pixels may or may not
	// have changed yet.
	OutcomePending
	// OutcomeCommitted means the gesture finished and changed pixels. The
	// caller should record history.
	OutcomeCommitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeCommitted:
		return "committed"
	}
	return "none"
}

// Engine applies the session's tool to a target surface from a stream of
// pointer events. All methods must be called on the executor goroutine.
type Engine struct {
	exec    loop.Executor
	session Session
	rng     *rand.Rand

	target  *raster.Surface
	active  bool
	start   image.Point
	last    image.Point
	drawn   bool
	polygon []image.Point

	spray   loop.Timer
	sprayAt image.Point

	// OnSpray runs after each spray tick paints. The studio uses it to
	// refresh the view.
	OnSpray func()
}

// NewEngine creates an engine that schedules spray ticks on exec.
func NewEngine(exec loop.Executor, s Session) *Engine {
	return &Engine{
		exec:    exec,
		session: s.Normalize(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the spray randomness source.
func (e *Engine) SetRand(r *rand.Rand) { e.rng = r }

// Session returns the current settings.
func (e *Engine) Session() Session { return e.session }

// SetSession replaces the settings. Changing tool abandons a pending
// polygon.
func (e *Engine) SetSession(s Session) {
	s = s.Normalize()
	if s.Tool != e.session.Tool {
		e.polygon = nil
	}
	e.session = s
}

// Active reports whether a drag gesture is underway.
func (e *Engine) Active() bool { return e.active }

// PendingPolygon returns the polygon vertices clicked so far.
func (e *Engine) PendingPolygon() []image.Point {
	return append([]image.Point(nil), e.polygon...)
}

// Begin starts a gesture at pt on target. Fill completes immediately. Text
// is stamped through StampText, so Begin ignores it.
func (e *Engine) Begin(target *raster.Surface, pt image.Point) (Outcome, error) {
	e.stopSpray()
	e.target = target
	e.start, e.last = pt, pt
	e.drawn = false
	p := e.session.Paint()
	switch e.session.Tool {
	case ToolText:
		return OutcomeNone, nil
	case ToolFill:
		n, err := target.FloodFill(pt, e.session.Color, e.session.Tolerance)
		if err != nil {
			return OutcomeNone, err
		}
		if n == 0 {
			return OutcomeNone, nil
		}
		return OutcomeCommitted, nil
	case ToolBrush, ToolEraser:
		target.StrokeSegment(pt, pt, p)
		e.drawn = true
	case ToolSpray:
		e.sprayAt = pt
		e.spray = e.exec.Every(e.session.SprayInterval, e.sprayTick)
	}
	e.active = true
	return OutcomePending, nil
}

// Move continues the gesture.
func (e *Engine) Move(pt image.Point) Outcome {
	if !e.active {
		return OutcomeNone
	}
	switch e.session.Tool {
	case ToolBrush, ToolEraser:
		if pt != e.last {
			e.target.StrokeSegment(e.last, pt, e.session.Paint())
		}
	case ToolSpray:
		e.sprayAt = pt
	}
	e.last = pt
	return OutcomePending
}

// End finishes the gesture at pt.
func (e *Engine) End(pt image.Point) Outcome {
	if !e.active {
		return OutcomeNone
	}
	e.active = false
	t := e.target
	s := e.session
	p := s.Paint()
	out := OutcomeCommitted
	switch s.Tool {
	case ToolBrush, ToolEraser:
		if pt != e.last {
			t.StrokeSegment(e.last, pt, p)
		}
	case ToolLine:
		t.StrokeSegment(e.start, pt, p)
	case ToolRectangle:
		r := image.Rectangle{Min: e.start, Max: pt}.Canon()
		if r.Empty() {
			out = OutcomeNone
			break
		}
		t.FillRect(r, p)
		t.StrokeRect(r, p)
	case ToolCircle:
		rad := radius(e.start, pt)
		if rad == 0 {
			out = OutcomeNone
			break
		}
		t.FillEllipse(e.start, rad, rad, p)
		t.StrokeEllipse(e.start, rad, rad, p)
	case ToolGradient:
		r := image.Rectangle{Min: e.start, Max: pt}.Canon()
		if r.Empty() {
			out = OutcomeNone
			break
		}
		t.FillGradientRect(r, e.start, pt, s.Color, Lighten(s.Color, 50), p)
	case ToolPolygon:
		e.polygon = append(e.polygon, pt)
		out = e.closePolygon()
	case ToolSpray:
		e.stopSpray()
		if !e.drawn {
			out = OutcomeNone
		}
	default:
		out = OutcomeNone
	}
	e.target = nil
	return out
}

func (e *Engine) closePolygon() Outcome {
	if len(e.polygon) < e.session.PolygonSides {
		return OutcomePending
	}
	pts := e.polygon
	e.polygon = nil
	p := e.session.Paint()
	if err := e.target.FillPolygon(pts, p); err != nil {
		return OutcomeNone
	}
	_ = e.target.StrokePolygon(pts, p)
	return OutcomeCommitted
}

// Cancel abandons the gesture without applying its end point. Tools that
// paint incrementally may already have changed pixels, in which case
// Cancel reports OutcomeCommitted so the caller can record them.
func (e *Engine) Cancel() Outcome {
	e.stopSpray()
	e.polygon = nil
	if !e.active {
		return OutcomeNone
	}
	e.active = false
	e.target = nil
	if e.drawn {
		return OutcomeCommitted
	}
	return OutcomeNone
}

// StampText draws text with its baseline at pt.
func (e *Engine) StampText(target *raster.Surface, pt image.Point, text string) (Outcome, error) {
	if text == "" {
		return OutcomeNone, nil
	}
	p := e.session.Paint()
	p.Mode = raster.BlendNormal
	if err := target.DrawText(pt, text, e.session.TextSize, p); err != nil {
		return OutcomeNone, err
	}
	return OutcomeCommitted, nil
}

// Preview draws the outline of an in-progress shape onto dst, which is
// expected to be a throwaway copy of the view.
func (e *Engine) Preview(dst *raster.Surface, cursor image.Point) {
	s := e.session
	p := s.Paint()
	p.Mode = raster.BlendNormal
	if !e.active {
		if s.Tool == ToolPolygon && len(e.polygon) > 0 {
			dst.StrokePolyline(append(e.PendingPolygon(), cursor), p)
		}
		return
	}
	switch s.Tool {
	case ToolLine:
		dst.StrokeSegment(e.start, e.last, p)
	case ToolRectangle:
		dst.StrokeRect(image.Rectangle{Min: e.start, Max: e.last}.Canon(), p)
	case ToolCircle:
		rad := radius(e.start, e.last)
		dst.StrokeEllipse(e.start, rad, rad, p)
	case ToolGradient:
		r := image.Rectangle{Min: e.start, Max: e.last}.Canon()
		dst.FillGradientRect(r, e.start, e.last, s.Color, Lighten(s.Color, 50), p)
	}
}

func (e *Engine) sprayTick() {
	if e.target == nil {
		return
	}
	s := e.session
	p := raster.Paint{Color: s.Color, Width: 1, Alpha: s.Opacity}
	rad := float64(s.Size * 2)
	for i := 0; i < s.Size; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		dist := e.rng.Float64() * rad
		x := int(math.Floor(float64(e.sprayAt.X) + math.Cos(angle)*dist))
		y := int(math.Floor(float64(e.sprayAt.Y) + math.Sin(angle)*dist))
		e.target.Plot(image.Pt(x, y), p)
	}
	e.drawn = true
	if e.OnSpray != nil {
		e.OnSpray()
	}
}

func (e *Engine) stopSpray() {
	if e.spray != nil {
		e.spray.Stop()
		e.spray = nil
	}
}

// Spraying reports whether a spray timer is live.
func (e *Engine) Spraying() bool { return e.spray != nil }

func radius(a, b image.Point) int {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return int(math.Round(math.Sqrt(dx*dx + dy*dy)))
}
