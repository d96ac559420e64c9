package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	"github.com/example/cartoonlab/internal/history"
	"github.com/example/cartoonlab/internal/theme"
	"github.com/example/cartoonlab/internal/tools"
)

// Canvas holds the size and fill of new cartoons.
type Canvas struct {
	Width      int
	Height     int
	Background color.NRGBA
}

// History holds undo settings.
type History struct {
	Capacity int
	Scope    history.Scope
}

// Animation holds frame settings.
type Animation struct {
	FrameDuration time.Duration
}

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Export bool
	Copy   bool
}

// Server holds gallery settings.
type Server struct {
	Addr string
}

// Config holds the application configuration.
type Config struct {
	Theme      string
	SaveDir    string
	Store      string
	DataSource string

	Canvas    Canvas
	Brush     tools.Session
	History   History
	Animation Animation
	Notify    Notify
	Server    Server
	Themes    map[string]*theme.Theme
}

// DefaultAddr is the gallery listen address.
const DefaultAddr = "127.0.0.1:8750"

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Empty falls back to env, then the built-in theme
		Canvas: Canvas{
			Width:      800,
			Height:     600,
			Background: color.NRGBA{255, 255, 255, 255},
		},
		Brush: tools.DefaultSession(),
		History: History{
			Capacity: history.DefaultCapacity,
			Scope:    history.ScopeGlobal,
		},
		Animation: Animation{FrameDuration: 100 * time.Millisecond},
		Server:    Server{Addr: DefaultAddr},
		Themes:    make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Store != "" {
		fmt.Fprintf(&sb, "store = %s\n", c.Store)
	}
	if c.DataSource != "" {
		fmt.Fprintf(&sb, "data_source = %s\n", c.DataSource)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "background = %s\n", tools.FormatColor(c.Canvas.Background))
	sb.WriteString("\n")

	b := c.Brush
	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "tool = %s\n", b.Tool)
	fmt.Fprintf(&sb, "color = %s\n", tools.FormatColor(b.Color))
	fmt.Fprintf(&sb, "size = %d\n", b.Size)
	fmt.Fprintf(&sb, "opacity = %g\n", b.Opacity)
	fmt.Fprintf(&sb, "cap = %s\n", b.Cap)
	fmt.Fprintf(&sb, "tolerance = %d\n", b.Tolerance)
	fmt.Fprintf(&sb, "polygon_sides = %d\n", b.PolygonSides)
	fmt.Fprintf(&sb, "text_size = %g\n", b.TextSize)
	fmt.Fprintf(&sb, "spray_interval_ms = %d\n", b.SprayInterval.Milliseconds())
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "capacity = %d\n", c.History.Capacity)
	fmt.Fprintf(&sb, "scope = %s\n", c.History.Scope)
	sb.WriteString("\n")

	sb.WriteString("[animation]\n")
	fmt.Fprintf(&sb, "frame_duration_ms = %d\n", c.Animation.FrameDuration.Milliseconds())
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Server.Addr)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, kv := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
