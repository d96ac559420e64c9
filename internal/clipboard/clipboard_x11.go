//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// readTimeout bounds how long readPNG waits for the selection owner.
var readTimeout = 2 * time.Second

var (
	initOnce sync.Once
	initErr  error
	owner    *x11Selection

	errTargetUnavailable = errors.New("clipboard target unavailable")
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		sel, err := openSelection()
		if err != nil {
			initErr = fmt.Errorf("connect to X server: %w", err)
			return
		}
		owner = sel
	})
	return initErr
}

// WritePNG publishes already encoded PNG data to the clipboard.
func WritePNG(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.offer(owner.atoms.png, data)
}

func readPNG() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := owner.request(owner.atoms.png, readTimeout)
	if errors.Is(err, errTargetUnavailable) {
		return nil, errNoImage
	}
	return data, err
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.offer(owner.atoms.utf8, []byte(text))
}

// x11Selection owns the CLIPBOARD selection through a hidden window and
// answers conversion requests from other clients.
type x11Selection struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  selectionAtoms

	mu     sync.RWMutex
	target xproto.Atom
	data   []byte
}

type selectionAtoms struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func openSelection() (*x11Selection, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	const mask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{mask}).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internSelectionAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	s := &x11Selection{conn: conn, window: window, atoms: atoms}
	go s.serve()
	return s, nil
}

func internSelectionAtoms(conn *xgb.Conn) (selectionAtoms, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "CARTOONLAB_SELECTION"}
	got := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return selectionAtoms{}, fmt.Errorf("intern %s: %w", name, err)
		}
		got[i] = reply.Atom
	}
	return selectionAtoms{
		clipboard: got[0],
		targets:   got[1],
		utf8:      got[2],
		textPlain: got[3],
		png:       got[4],
		property:  got[5],
	}, nil
}

// offer replaces the payload and claims the selection. Only one payload
// is held at a time, so copying text drops a previously copied image.
func (s *x11Selection) offer(target xproto.Atom, data []byte) error {
	s.mu.Lock()
	s.target = target
	s.data = append([]byte(nil), data...)
	s.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(s.conn, s.window, s.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (s *x11Selection) serve() {
	for {
		ev, err := s.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			s.answer(e)
		case xproto.SelectionClearEvent:
			s.mu.Lock()
			s.target, s.data = 0, nil
			s.mu.Unlock()
		}
	}
}

func (s *x11Selection) isText(a xproto.Atom) bool {
	return a == s.atoms.utf8 || a == s.atoms.textPlain || a == xproto.AtomString
}

// reply returns the property type, format and payload for a conversion
// to target. ok is false when the held payload cannot be offered as target.
func (s *x11Selection) reply(target xproto.Atom) (typ xproto.Atom, format byte, payload []byte, ok bool) {
	s.mu.RLock()
	held, data := s.target, s.data
	s.mu.RUnlock()
	if len(data) == 0 {
		return 0, 0, nil, false
	}
	switch {
	case target == s.atoms.targets:
		list := []xproto.Atom{s.atoms.targets}
		if s.isText(held) {
			list = append(list, s.atoms.utf8, xproto.AtomString, s.atoms.textPlain)
		} else {
			list = append(list, held)
		}
		return xproto.AtomAtom, 32, atomBytes(list), true
	case target == held:
		return held, 8, data, true
	case s.isText(target) && s.isText(held):
		return s.atoms.utf8, 8, data, true
	}
	return 0, 0, nil, false
}

func (s *x11Selection) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	typ, format, payload, ok := s.reply(e.Target)
	if ok {
		n := uint32(len(payload))
		if format == 32 {
			n /= 4
		}
		xproto.ChangeProperty(s.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, n, payload)
	} else {
		property = xproto.AtomNone
	}
	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(s.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// request converts the clipboard selection to target on a fresh
// connection so the owner loop in serve is never blocked.
func (s *x11Selection) request(target xproto.Atom, timeout time.Duration) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, s.atoms.clipboard, target, s.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		for {
			ev, xerr := conn.WaitForEvent()
			if xerr != nil {
				done <- result{err: xerr}
				return
			}
			e, ok := ev.(xproto.SelectionNotifyEvent)
			if !ok {
				continue
			}
			if e.Property == xproto.AtomNone {
				done <- result{err: errTargetUnavailable}
				return
			}
			reply, err := xproto.GetProperty(conn, true, window, e.Property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
			if err != nil {
				done <- result{err: err}
				return
			}
			done <- result{data: append([]byte(nil), reply.Value...)}
			return
		}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("clipboard owner did not answer within %s", timeout)
	}
}

func atomBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, a := range atoms {
		xgb.Put32(buf[i*4:], uint32(a))
	}
	return buf
}
