package editor

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/cartoonlab/internal/clipboard"
	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/loop"
	"github.com/example/cartoonlab/internal/notify"
	"github.com/example/cartoonlab/internal/studio"
	"github.com/example/cartoonlab/internal/theme"
)

// Editor opens a cartoon in a desktop window.
type Editor struct {
	studioOpts []studio.Option
	theme      *theme.Theme
	store      core.CartoonStore
	notifier   *notify.Notifier
	saveDir    string
	doc        *core.Cartoon
}

// Option configures an Editor.
type Option func(*Editor)

// WithStudioOptions passes options through to the studio.
func WithStudioOptions(opts ...studio.Option) Option {
	return func(e *Editor) { e.studioOpts = append(e.studioOpts, opts...) }
}

// WithTheme sets the UI palette.
func WithTheme(t *theme.Theme) Option { return func(e *Editor) { e.theme = t } }

// WithStore sets where Ctrl+S saves.
func WithStore(s core.CartoonStore) Option { return func(e *Editor) { e.store = s } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(e *Editor) { e.notifier = n } }

// WithSaveDir sets the directory PNG exports are written to.
func WithSaveDir(dir string) Option { return func(e *Editor) { e.saveDir = dir } }

// WithDocument opens a saved cartoon instead of a blank canvas.
func WithDocument(c *core.Cartoon) Option { return func(e *Editor) { e.doc = c } }

// New creates an editor.
func New(opts ...Option) *Editor {
	e := &Editor{theme: theme.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run executes the UI loop using shiny's driver. It returns when the window
// closes.
func (e *Editor) Run() error {
	var err error
	driver.Main(func(s screen.Screen) { err = e.Main(s) })
	return err
}

// postEvent carries executor work through the window's event queue.
type postEvent struct{ fn func() }

// window is the per-run state of Main.
type window struct {
	ed     *Editor
	scr    screen.Screen
	w      screen.Window
	st     *studio.Studio
	ui     *UI
	buf    screen.Buffer
	queued bool
	quit   bool
	exec   loop.Executor
}

// Main runs the editor on s until the window is closed.
func (e *Editor) Main(s screen.Screen) error {
	win := &window{ed: e, scr: s}
	win.exec = loop.Poster(func(fn func()) { win.w.Send(postEvent{fn}) })

	opts := append([]studio.Option{}, e.studioOpts...)
	opts = append(opts,
		studio.WithPrompter(studio.PromptFunc(func(msg, def string) (string, bool) {
			return win.ui.Prompt(msg, def, win.pump)
		})),
		studio.WithConfirmer(studio.ConfirmFunc(func(msg string) bool {
			return win.ui.Confirm(msg, win.pump)
		})),
		studio.WithOnChange(win.requestPaint),
	)
	win.st = studio.New(win.exec, opts...)
	title := "Untitled"
	if e.doc != nil {
		if err := win.st.Load(e.doc); err != nil {
			return fmt.Errorf("open %s: %w", e.doc.ID, err)
		}
		title = e.doc.Name
	}

	cw, ch := win.st.Size()
	width, height := windowSize(cw, ch)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Cartoon Lab"})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()
	win.w = w
	defer func() {
		if win.buf != nil {
			win.buf.Release()
		}
	}()

	win.ui = NewUI(win.st, e.theme, win.hooks(), width, height)
	win.ui.SetTitle(title)

	expire := win.exec.Every(500*time.Millisecond, func() {
		if win.ui.message != "" && !win.ui.now().Before(win.ui.messageUntil) {
			win.ui.message = ""
			win.requestPaint()
		}
	})
	defer expire.Stop()
	defer win.st.Stop()

	for !win.quit {
		if win.handle(w.NextEvent()) {
			return nil
		}
	}
	return nil
}

// handle processes one event and reports whether the window died.
func (win *window) handle(ev interface{}) bool {
	switch e := ev.(type) {
	case postEvent:
		e.fn()
	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			return true
		}
	case size.Event:
		win.ui.Resize(e.WidthPx, e.HeightPx)
		win.requestPaint()
	case paint.Event:
		win.queued = false
		win.paint()
	case mouse.Event:
		if win.ui.Mouse(e) {
			win.requestPaint()
		}
	case key.Event:
		if win.ui.Key(e) {
			win.requestPaint()
		}
	}
	return false
}

// pump runs a nested event loop for a modal. Executor work that arrives
// meanwhile is re-queued once the modal closes.
func (win *window) pump(done func() bool) {
	var deferred []func()
	defer func() {
		for _, fn := range deferred {
			win.w.Send(postEvent{fn})
		}
	}()
	win.requestPaint()
	for !done() {
		switch e := win.w.NextEvent().(type) {
		case postEvent:
			deferred = append(deferred, e.fn)
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				win.quit = true
				return
			}
		case size.Event:
			win.ui.Resize(e.WidthPx, e.HeightPx)
			win.requestPaint()
		case paint.Event:
			win.queued = false
			win.paint()
		case key.Event:
			if win.ui.Key(e) {
				win.requestPaint()
			}
		}
	}
}

// requestPaint coalesces repaint requests into one paint event.
func (win *window) requestPaint() {
	if win.queued || win.w == nil {
		return
	}
	win.queued = true
	win.w.Send(paint.Event{})
}

func (win *window) paint() {
	sz := image.Pt(win.ui.lay.width, win.ui.lay.height)
	if win.buf == nil || win.buf.Size() != sz {
		if win.buf != nil {
			win.buf.Release()
		}
		b, err := win.scr.NewBuffer(sz)
		if err != nil {
			logrus.WithField("error", err).Error("new buffer")
			win.buf = nil
			return
		}
		win.buf = b
	}
	win.ui.Draw(win.buf.RGBA())
	win.w.Upload(image.Point{}, win.buf, win.buf.Bounds())
	win.w.Publish()
}

func (win *window) hooks() Hooks {
	return Hooks{
		Save:   win.save,
		Export: win.export,
		Copy:   win.copy,
		Paste:  win.paste,
		Quit:   func() { win.quit = true },
	}
}

func (win *window) save() {
	store := win.ed.store
	if store == nil {
		win.ui.Flash("no store configured")
		return
	}
	def := win.st.Name()
	if def == "" {
		def = core.AutoSaveName(time.Now())
	}
	name, ok := win.ui.Prompt("Save cartoon as:", def, win.pump)
	if !ok || name == "" {
		return
	}
	doc := win.st.Document(name)
	var saveErr error
	win.exec.Async(func() {
		_, saveErr = store.Save(context.Background(), doc)
	}, func() {
		if saveErr != nil {
			logrus.WithFields(logrus.Fields{"error": saveErr, "cartoon_id": doc.ID}).Error("Failed to save cartoon")
			win.ui.Flash("save failed")
			win.requestPaint()
			return
		}
		win.st.Saved(doc)
		win.ui.SetTitle(doc.Name)
		win.ui.Flash("saved " + doc.Name)
		win.ed.notifier.Save(doc.Name, win.st.Composite())
		win.requestPaint()
	})
}

func (win *window) export() {
	dir := win.ed.saveDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, core.ExportFileName(time.Now()))
	data := win.st.Export()
	var writeErr error
	win.exec.Async(func() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			writeErr = err
			return
		}
		writeErr = os.WriteFile(path, data, 0o644)
	}, func() {
		if writeErr != nil {
			win.ui.Flash("export failed: " + writeErr.Error())
		} else {
			win.ui.Flash("exported " + filepath.Base(path))
			win.ed.notifier.Export(path)
		}
		win.requestPaint()
	})
}

func (win *window) copy() {
	if err := clipboard.WritePNG(win.st.Export()); err != nil {
		win.ui.Flash("copy failed: " + err.Error())
		return
	}
	win.ui.Flash("copied to clipboard")
	win.ed.notifier.Copy("cartoon")
}

func (win *window) paste() {
	img, err := clipboard.ReadImage()
	if err != nil {
		win.ui.Flash("paste failed: " + err.Error())
		return
	}
	win.st.PasteLayer("Pasted", img)
}
