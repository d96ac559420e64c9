package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/cartoonlab/internal/history"
	"github.com/example/cartoonlab/internal/raster"
	"github.com/example/cartoonlab/internal/theme"
	"github.com/example/cartoonlab/internal/tools"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentSection = strings.ToLower(raw)
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := raw[len("theme."):]
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "":
			setRootField(cfg, key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case currentSection == "history":
			err = setHistoryField(&cfg.History, key, value)
		case currentSection == "animation":
			err = setAnimationField(&cfg.Animation, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "server":
			if key == "addr" {
				cfg.Server.Addr = value
			}
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, section, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	cfg.Brush = cfg.Brush.Normalize()
	return cfg, nil
}

func setRootField(cfg *Config, key, value string) {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "store":
		cfg.Store = value
	case "data_source":
		cfg.DataSource = value
	}
}

func setCanvasField(c *Canvas, key, value string) error {
	switch key {
	case "width", "height":
		n, err := positive(key, value)
		if err != nil {
			return err
		}
		if key == "width" {
			c.Width = n
		} else {
			c.Height = n
		}
	case "background":
		col, err := tools.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		c.Background = col
	}
	return nil
}

func setBrushField(s *tools.Session, key, value string) error {
	var err error
	switch key {
	case "tool":
		s.Tool, err = tools.ParseTool(value)
	case "color":
		s.Color, err = tools.ParseColor(value)
	case "size":
		s.Size, err = positive(key, value)
	case "opacity":
		s.Opacity, err = strconv.ParseFloat(value, 64)
		if err == nil && (s.Opacity <= 0 || s.Opacity > 1) {
			err = fmt.Errorf("opacity %v outside (0, 1]", s.Opacity)
		}
	case "cap":
		s.Cap, err = raster.ParseLineCap(value)
	case "tolerance":
		s.Tolerance, err = strconv.Atoi(value)
	case "polygon_sides":
		s.PolygonSides, err = positive(key, value)
	case "text_size":
		s.TextSize, err = strconv.ParseFloat(value, 64)
	case "spray_interval_ms":
		var ms int
		ms, err = positive(key, value)
		s.SprayInterval = time.Duration(ms) * time.Millisecond
	}
	if err != nil {
		return fmt.Errorf("key %s: %w", key, err)
	}
	return nil
}

func setHistoryField(h *History, key, value string) error {
	var err error
	switch key {
	case "capacity":
		h.Capacity, err = positive(key, value)
	case "scope":
		h.Scope, err = history.ParseScope(value)
	}
	return err
}

func setAnimationField(a *Animation, key, value string) error {
	if key != "frame_duration_ms" {
		return nil
	}
	ms, err := positive(key, value)
	if err != nil {
		return err
	}
	a.FrameDuration = time.Duration(ms) * time.Millisecond
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func positive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
