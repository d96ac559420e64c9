//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func testSelection() *x11Selection {
	return &x11Selection{atoms: selectionAtoms{
		clipboard: 100,
		targets:   101,
		utf8:      102,
		textPlain: 103,
		png:       104,
		property:  105,
	}}
}

func TestSelectionReplyEmpty(t *testing.T) {
	s := testSelection()
	if _, _, _, ok := s.reply(s.atoms.targets); ok {
		t.Fatalf("empty selection answered TARGETS")
	}
}

func TestSelectionReplyPNG(t *testing.T) {
	s := testSelection()
	png := []byte{0x89, 'P', 'N', 'G'}
	s.target, s.data = s.atoms.png, png

	typ, format, payload, ok := s.reply(s.atoms.png)
	if !ok || typ != s.atoms.png || format != 8 || !bytes.Equal(payload, png) {
		t.Fatalf("png reply = %v %d %v %v", typ, format, payload, ok)
	}
	if _, _, _, ok := s.reply(s.atoms.utf8); ok {
		t.Fatalf("png payload offered as text")
	}

	typ, format, payload, ok = s.reply(s.atoms.targets)
	if !ok || typ != xproto.AtomAtom || format != 32 || len(payload) != 8 {
		t.Fatalf("targets reply = %v %d %v %v", typ, format, payload, ok)
	}
	if got := xproto.Atom(xgb.Get32(payload[4:])); got != s.atoms.png {
		t.Fatalf("second target = %d, want png", got)
	}
}

func TestSelectionReplyText(t *testing.T) {
	s := testSelection()
	s.target, s.data = s.atoms.utf8, []byte("hello")

	for _, target := range []xproto.Atom{s.atoms.utf8, s.atoms.textPlain, xproto.AtomString} {
		typ, _, payload, ok := s.reply(target)
		if !ok || typ != s.atoms.utf8 || string(payload) != "hello" {
			t.Fatalf("text reply for %d = %v %q %v", target, typ, payload, ok)
		}
	}
	if _, _, _, ok := s.reply(s.atoms.png); ok {
		t.Fatalf("text payload offered as png")
	}
	_, _, payload, _ := s.reply(s.atoms.targets)
	if len(payload) != 16 {
		t.Fatalf("text targets = %d bytes, want 16", len(payload))
	}
}
