package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/history"
	"github.com/example/cartoonlab/internal/raster"
	"github.com/example/cartoonlab/internal/tools"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/cartoons
store = sqlite

[canvas]
width = 320
height = 240
background = #000000

[brush]
tool = spray
color = tomato
size = 12
opacity = 0.5
cap = square
polygon_sides = 7

[history]
capacity = 20
scope = layer

[animation]
frame_duration_ms = 250

[notify]
save = true
export = false
copy = true

[server]
addr = :9000

[theme.my_custom_theme]
Background = #111111
Accent = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/cartoons" || cfg.Store != "sqlite" {
		t.Errorf("root fields: %q %q", cfg.SaveDir, cfg.Store)
	}
	if cfg.Canvas.Width != 320 || cfg.Canvas.Height != 240 || cfg.Canvas.Background != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("canvas: %+v", cfg.Canvas)
	}
	b := cfg.Brush
	if b.Tool != tools.ToolSpray || b.Size != 12 || b.Opacity != 0.5 || b.Cap != raster.CapSquare || b.PolygonSides != 7 {
		t.Errorf("brush: %+v", b)
	}
	if b.Color != (color.NRGBA{0xff, 0x63, 0x47, 0xff}) {
		t.Errorf("brush color: %v", b.Color)
	}
	if cfg.History.Capacity != 20 || cfg.History.Scope != history.ScopeLayer {
		t.Errorf("history: %+v", cfg.History)
	}
	if cfg.Animation.FrameDuration != 250*time.Millisecond {
		t.Errorf("frame duration: %v", cfg.Animation.FrameDuration)
	}
	if !cfg.Notify.Save || cfg.Notify.Export || !cfg.Notify.Copy {
		t.Errorf("notify: %+v", cfg.Notify)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server addr: %q", cfg.Server.Addr)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestParseErrorsNameLine(t *testing.T) {
	_, err := Parse(strings.NewReader("[brush]\nsize = 3\nsize = big\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected line 3 error, got %v", err)
	}
	if _, err := Parse(strings.NewReader("[history]\nscope = sideways\n")); err == nil {
		t.Fatal("bad scope accepted")
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/cartoons

[brush]
tool = polygon
color = #112233
size = 9

[notify]
save = true
export = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.Brush != cfg2.Brush {
		t.Errorf("Brush mismatch: %+v vs %+v", cfg.Brush, cfg2.Brush)
	}
	if cfg.Canvas != cfg2.Canvas || cfg.History != cfg2.History || cfg.Animation != cfg2.Animation {
		t.Errorf("section mismatch")
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("CARTOONLAB_THEME", "")
	t.Setenv("STORAGE_TYPE", "")

	if err := os.WriteFile(filepath.Join(dir, ".cartoonlabrc"), []byte("theme = local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewLoader("dev", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "local" {
		t.Errorf("dev build should read .cartoonlabrc, got %q", cfg.Theme)
	}

	cfg, err = NewLoader("1.0.0", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "" {
		t.Errorf("release build read local rc: %q", cfg.Theme)
	}

	override := filepath.Join(dir, "o.rc")
	if err := os.WriteFile(override, []byte("theme = override\nstore = memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CARTOONLAB_THEME", "fromenv")
	cfg, err = NewLoader("dev", override).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "fromenv" || cfg.Store != "memory" {
		t.Errorf("override+env: theme %q store %q", cfg.Theme, cfg.Store)
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("STORAGE_TYPE", "")
	os.Unsetenv("STORAGE_TYPE")
	if err := LoadDotEnv(); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_TYPE=memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg := New()
	cfg.ApplyEnv()
	if cfg.Store != "memory" {
		t.Fatalf("store from .env = %q", cfg.Store)
	}
}

func TestSaveWritesParsableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.rc")
	cfg := New()
	cfg.Theme = "candy"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	back, err := Parse(f)
	if err != nil || back.Theme != "candy" {
		t.Fatalf("reparse: %+v %v", back, err)
	}
}

func TestLogLevel(t *testing.T) {
	t.Setenv("CARTOONLAB_LOG_LEVEL", "debug")
	if LogLevel(logrus.WarnLevel) != logrus.DebugLevel {
		t.Fatal("env level ignored")
	}
	t.Setenv("CARTOONLAB_LOG_LEVEL", "loud")
	if LogLevel(logrus.WarnLevel) != logrus.WarnLevel {
		t.Fatal("bad level should fall back")
	}
}
