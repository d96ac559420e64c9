package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/example/cartoonlab/internal/studio"
	"github.com/example/cartoonlab/internal/tools"
)

// drawCmd applies one tool operation to a saved or new cartoon and saves
// the result.
type drawCmd struct {
	*root
	fs *flag.FlagSet

	open      string
	newSize   string
	name      string
	output    string
	colorSpec string
	size      int
	opacity   float64
	text      string

	shape  string
	coords []int
	width  int
	height int
}

var drawShapes = map[string]tools.Tool{
	"brush":    tools.ToolBrush,
	"line":     tools.ToolLine,
	"eraser":   tools.ToolEraser,
	"rect":     tools.ToolRectangle,
	"circle":   tools.ToolCircle,
	"polygon":  tools.ToolPolygon,
	"gradient": tools.ToolGradient,
	"fill":     tools.ToolFill,
	"text":     tools.ToolText,
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	d := &drawCmd{root: r.subcommand("draw"), fs: newFlagSet("draw")}
	d.fs.Usage = usageFunc(d)
	d.fs.StringVar(&d.open, "open", "", "id of the saved cartoon to draw on")
	d.fs.StringVar(&d.newSize, "new", "", "start a new WxH cartoon instead of opening one")
	d.fs.StringVar(&d.name, "name", "", "name to save the cartoon under")
	d.fs.StringVar(&d.output, "output", "", "also write the flattened PNG to this file")
	d.fs.StringVar(&d.colorSpec, "color", "", "color name or hex value")
	d.fs.IntVar(&d.size, "size", 0, "brush size in pixels")
	d.fs.Float64Var(&d.opacity, "opacity", 0, "brush opacity between 0 and 1")
	d.fs.StringVar(&d.text, "text", "", "text to stamp with the text shape")
	if err := parseFlags(d.fs, args, d); err != nil {
		return nil, err
	}
	if (d.open == "") == (d.newSize == "") {
		return nil, &UsageError{of: d, msg: "exactly one of -open or -new is required"}
	}
	if d.newSize != "" {
		w, h, ok := strings.Cut(strings.ToLower(d.newSize), "x")
		var err1, err2 error
		d.width, err1 = strconv.Atoi(w)
		d.height, err2 = strconv.Atoi(h)
		if !ok || err1 != nil || err2 != nil || d.width <= 0 || d.height <= 0 {
			return nil, fmt.Errorf("invalid -new size %q, want WxH", d.newSize)
		}
	}
	if d.fs.NArg() < 1 {
		return nil, &UsageError{of: d}
	}
	d.shape = strings.ToLower(d.fs.Arg(0))
	if _, ok := drawShapes[d.shape]; !ok {
		return nil, fmt.Errorf("unknown shape %q", d.shape)
	}
	for _, a := range d.fs.Args()[1:] {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", a)
		}
		d.coords = append(d.coords, v)
	}
	if err := d.checkCoords(); err != nil {
		return nil, err
	}
	if d.shape == "text" && d.text == "" {
		return nil, fmt.Errorf("the text shape requires -text")
	}
	return d, nil
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func (d *drawCmd) checkCoords() error {
	n := len(d.coords)
	switch d.shape {
	case "fill", "text":
		if n != 2 {
			return fmt.Errorf("%s needs x y", d.shape)
		}
	case "brush", "eraser":
		if n < 2 || n%2 != 0 {
			return fmt.Errorf("%s needs one or more x y pairs", d.shape)
		}
	case "polygon":
		if n < 2*tools.MinPolygonSides || n > 2*tools.MaxPolygonSides || n%2 != 0 {
			return fmt.Errorf("polygon needs %d to %d x y pairs", tools.MinPolygonSides, tools.MaxPolygonSides)
		}
	default:
		if n != 4 {
			return fmt.Errorf("%s needs x0 y0 x1 y1", d.shape)
		}
	}
	return nil
}

func (d *drawCmd) points() []image.Point {
	pts := make([]image.Point, 0, len(d.coords)/2)
	for i := 0; i+1 < len(d.coords); i += 2 {
		pts = append(pts, image.Pt(d.coords[i], d.coords[i+1]))
	}
	return pts
}

func (d *drawCmd) Run() error {
	ctx := context.Background()
	store, err := d.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	var opts []studio.Option
	if d.newSize != "" {
		opts = append(opts, studio.WithSize(d.width, d.height))
	}
	sess := d.newSession(opts...)
	defer sess.Close()
	if d.open != "" {
		doc, err := store.Get(ctx, d.open)
		if err != nil {
			return err
		}
		if err := sess.load(doc); err != nil {
			return err
		}
	}

	var col color.NRGBA
	if d.colorSpec != "" {
		if col, err = tools.ParseColor(d.colorSpec); err != nil {
			return err
		}
	}
	pts := d.points()
	sess.update(func(ss *tools.Session) {
		ss.Tool = drawShapes[d.shape]
		if d.colorSpec != "" {
			ss.Color = col
		}
		if d.size > 0 {
			ss.Size = d.size
		}
		if d.opacity > 0 {
			ss.Opacity = d.opacity
		}
		if d.shape == "polygon" {
			ss.PolygonSides = len(pts)
		}
	})

	sess.do(func(st *studio.Studio) {
		switch d.shape {
		case "fill":
			err = st.Click(pts[0])
		case "text":
			sess.text = d.text
			err = st.Click(pts[0])
		case "polygon":
			for _, p := range pts {
				if err = st.Click(p); err != nil {
					return
				}
			}
		default:
			if err = st.PointerDown(pts[0]); err != nil {
				return
			}
			for _, p := range pts[1:] {
				st.PointerMove(p)
			}
			st.PointerUp(pts[len(pts)-1])
		}
	})
	if err != nil {
		return fmt.Errorf("draw %s: %w", d.shape, err)
	}

	doc, err := sess.save(ctx, store, d.name)
	if err != nil {
		return err
	}
	if d.output != "" {
		if err := writePNG(d.output, doc.Image); err != nil {
			return err
		}
		d.notifier.Export(d.output)
	}
	fmt.Fprintln(d.stdout, doc.ID)
	return nil
}

func writePNG(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
