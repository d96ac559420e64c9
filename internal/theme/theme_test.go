package theme

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Mine\n# comment\naccent: #112233\nCheckerDark: #01020380\nUnknown: #FFFFFF\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Mine" {
		t.Errorf("name %q", th.Name)
	}
	if th.Accent != (color.RGBA{0x11, 0x22, 0x33, 255}) {
		t.Errorf("accent %v", th.Accent)
	}
	if th.CheckerDark != (color.RGBA{1, 2, 3, 0x80}) {
		t.Errorf("checker dark %v", th.CheckerDark)
	}
	if th.Background != Default().Background {
		t.Errorf("unset field lost its default")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Accent: 112233\n")); err == nil {
		t.Fatal("expected error for colour without #")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	d := Default()
	var sb strings.Builder
	sb.WriteString("Name: " + d.Name + "\n")
	for _, kv := range d.Fields() {
		sb.WriteString(kv[0] + ": " + kv[1] + "\n")
	}
	back, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *back != *d {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, d)
	}
}

func TestLoaderEmbeddedAndFiles(t *testing.T) {
	dir := t.TempDir()
	l := &Loader{ConfigDir: dir, SystemDir: filepath.Join(dir, "none")}

	for _, name := range EmbeddedNames() {
		if _, err := l.Load(name); err != nil {
			t.Errorf("embedded theme %s: %v", name, err)
		}
	}
	dark, err := l.Load("dark")
	if err != nil || dark.Name != "Dark" {
		t.Fatalf("Load(dark) = %+v, %v", dark, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mine, err := l.Load("mine")
	if err != nil || mine.Name != "Mine" {
		t.Fatalf("Load(mine) = %+v, %v", mine, err)
	}

	if _, err := l.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(missing) err = %v", err)
	}
	if d, err := l.Load(""); err != nil || d.Name != "Default" {
		t.Fatalf("Load(\"\") = %+v, %v", d, err)
	}
}
