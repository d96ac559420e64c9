package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/example/cartoonlab/internal/config"
	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/stores/memory"
)

func testRoot(t *testing.T) (*root, *bytes.Buffer, core.CartoonStore) {
	t.Helper()
	store := memory.NewStore()
	var out bytes.Buffer
	cfg := config.New()
	cfg.Canvas.Width, cfg.Canvas.Height = 40, 30
	r := &root{
		program: "cartoonlab",
		config:  cfg,
		stdin:   strings.NewReader(""),
		stdout:  &out,
		stderr:  io.Discard,
	}
	r.openStore = func() (core.CartoonStore, error) { return store, nil }
	return r, &out, store
}

func TestRootWithoutCommandShowsUsage(t *testing.T) {
	r := newRoot()
	err := r.Run(nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if want := "Commands:"; !strings.Contains(uerr.Error(), want) {
		t.Fatalf("expected help to contain %q, got %q", want, uerr.Error())
	}
}

func TestSubcommandUsageNamesProgram(t *testing.T) {
	r, _, _ := testRoot(t)
	_, err := parseExportCmd(nil, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := uerr.Error()
	if !strings.Contains(help, "Usage: cartoonlab export") || !strings.Contains(help, "-shadow") {
		t.Fatalf("unexpected help %q", help)
	}
}

func TestParseDrawRequiresOneSource(t *testing.T) {
	r, _, _ := testRoot(t)
	_, err := parseDrawCmd([]string{"line", "0", "0", "1", "1"}, r)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "exactly one of -open or -new"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawChecksCoordinates(t *testing.T) {
	r, _, _ := testRoot(t)
	_, err := parseDrawCmd([]string{"-new", "10x10", "rect", "1", "2"}, r)
	if err == nil || !strings.Contains(err.Error(), "x0 y0 x1 y1") {
		t.Fatalf("expected coordinate error, got %v", err)
	}
	_, err = parseDrawCmd([]string{"-new", "10by10", "fill", "1", "2"}, r)
	if err == nil || !strings.Contains(err.Error(), "WxH") {
		t.Fatalf("expected size error, got %v", err)
	}
	_, err = parseDrawCmd([]string{"-new", "10x10", "text", "1", "2"}, r)
	if err == nil || !strings.Contains(err.Error(), "-text") {
		t.Fatalf("expected text error, got %v", err)
	}
}

func TestExportRejectsClipboardWithFile(t *testing.T) {
	r, _, _ := testRoot(t)
	_, err := parseExportCmd([]string{"-to-clipboard", "id", "out.png"}, r)
	if err == nil {
		t.Fatalf("expected error")
	} else if want := "-to-clipboard cannot be combined"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestExportMissingCartoon(t *testing.T) {
	r, _, _ := testRoot(t)
	cmd, err := parseExportCmd([]string{"nope", t.TempDir() + "/out.png"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnknownConfigCommand(t *testing.T) {
	r, out, _ := testRoot(t)
	cmd, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out.String(), "[canvas]") {
		t.Fatalf("config print missing canvas section: %q", out.String())
	}
	cmd, _ = parseConfigCmd([]string{"frobnicate"}, r)
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "unknown config command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}
