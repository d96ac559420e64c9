package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// Parse reads a theme definition from an io.Reader.
// The format is a simple key-value pair per line: Key: #RRGGBB or #RRGGBBAA
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := t.Set(key, value); err != nil {
			return nil, err
		}
	}

	return t, scanner.Err()
}

// Set assigns a colour field by case-insensitive name. Unknown keys are
// ignored so older binaries can read newer themes.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if !strings.EqualFold(typ.Field(i).Name, key) {
			continue
		}
		field := val.Field(i)
		if field.Type() != reflect.TypeOf(color.RGBA{}) {
			return nil
		}
		col, err := ParseHex(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		field.Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}

// Fields returns the colour fields in declaration order as name/value
// pairs, for writing a theme back out.
func (t *Theme) Fields() [][2]string {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var out [][2]string
	for i := 0; i < typ.NumField(); i++ {
		c, ok := val.Field(i).Interface().(color.RGBA)
		if !ok {
			continue
		}
		out = append(out, [2]string{typ.Field(i).Name, FormatHex(c)})
	}
	return out
}

// FormatHex renders c as #RRGGBB, or #RRGGBBAA when not opaque.
func FormatHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseHex parses #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		// #RRGGBB
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	} else if len(hex) == 8 {
		// #RRGGBBAA
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
