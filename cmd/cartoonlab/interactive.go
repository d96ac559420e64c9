package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/cartoonlab/internal/clipboard"
	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/raster"
	"github.com/example/cartoonlab/internal/studio"
	"github.com/example/cartoonlab/internal/tools"
)

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

type interactiveCmd struct {
	*root
	fs    *flag.FlagSet
	execs commandList
	open  string

	sess  *session
	store core.CartoonStore
	in    *bufio.Scanner
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	c := &interactiveCmd{root: r.subcommand("interactive"), fs: newFlagSet("interactive")}
	c.fs.Usage = usageFunc(c)
	c.fs.Var(&c.execs, "e", "execute a command and exit (may be specified multiple times)")
	c.fs.StringVar(&c.open, "open", "", "id of a saved cartoon to start from")
	if err := parseFlags(c.fs, args, c); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *interactiveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *interactiveCmd) Run() error {
	c.sess = c.newSession()
	defer c.sess.Close()
	if c.open != "" {
		if err := c.openCartoon(c.open); err != nil {
			return err
		}
	}

	if len(c.execs) > 0 {
		for _, line := range c.execs {
			done, err := c.executeLine(line)
			if err != nil {
				return fmt.Errorf("%s: %w", line, err)
			}
			if done {
				break
			}
		}
		return nil
	}

	c.in = bufio.NewScanner(c.stdin)
	c.sess.confirm = c.ask
	fmt.Fprintln(c.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	for {
		fmt.Fprint(c.stdout, "> ")
		if !c.in.Scan() {
			break
		}
		done, err := c.executeLine(c.in.Text())
		if err != nil {
			fmt.Fprintln(c.stderr, err)
		}
		if done {
			break
		}
	}
	return c.in.Err()
}

// ask reads a yes/no answer from the same input as the commands.
func (c *interactiveCmd) ask(message string) bool {
	fmt.Fprintf(c.stdout, "%s [y/N] ", message)
	if !c.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes"
}

func (c *interactiveCmd) getStore() (core.CartoonStore, error) {
	if c.store != nil {
		return c.store, nil
	}
	s, err := c.openStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c.store = s
	return s, nil
}

func (c *interactiveCmd) openCartoon(id string) error {
	store, err := c.getStore()
	if err != nil {
		return err
	}
	doc, err := store.Get(context.Background(), id)
	if err != nil {
		return err
	}
	return c.sess.load(doc)
}

func ints(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]int, n)
	for i := range out {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", args[i])
		}
		out[i] = v
	}
	return out, nil
}

func point(args []string) (image.Point, error) {
	v, err := ints(args, 2)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(v[0], v[1]), nil
}

// executeLine runs one command. done is true when the session should end.
func (c *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return false, nil
	}
	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(c.stdout, interactiveHelp)
		return false, nil
	case "tool", "color", "size", "opacity", "cap", "sides", "tolerance", "textsize":
		return false, c.setting(name, rest)
	case "down", "move", "up", "click":
		pt, err := point(rest)
		if err != nil {
			return false, err
		}
		c.sess.do(func(st *studio.Studio) {
			switch name {
			case "down":
				err = st.PointerDown(pt)
			case "move":
				st.PointerMove(pt)
			case "up":
				st.PointerUp(pt)
			case "click":
				err = st.Click(pt)
			}
		})
		return false, err
	case "text":
		return false, c.text(rest)
	case "undo", "redo":
		var ok bool
		c.sess.do(func(st *studio.Studio) {
			if name == "undo" {
				ok = st.Undo()
			} else {
				ok = st.Redo()
			}
		})
		if !ok {
			fmt.Fprintf(c.stdout, "nothing to %s\n", name)
		}
		return false, nil
	case "layer":
		return false, c.layer(rest)
	case "layers":
		c.printLayers()
		return false, nil
	case "merge", "clear":
		c.sess.do(func(st *studio.Studio) {
			if name == "merge" {
				err = st.MergeLayers()
			} else {
				err = st.ClearLayer()
			}
		})
		if errors.Is(err, studio.ErrAborted) {
			fmt.Fprintln(c.stdout, "cancelled")
			return false, nil
		}
		return false, err
	case "frame":
		return false, c.frame(rest)
	case "frames":
		c.printFrames()
		return false, nil
	case "play":
		var interval time.Duration
		if len(rest) > 0 {
			v, err := ints(rest, 1)
			if err != nil {
				return false, err
			}
			interval = time.Duration(v[0]) * time.Millisecond
		}
		c.sess.do(func(st *studio.Studio) { err = st.Play(interval) })
		return false, err
	case "stop":
		c.sess.do(func(st *studio.Studio) { st.Stop() })
		return false, nil
	case "wait":
		v, err := ints(rest, 1)
		if err != nil {
			return false, err
		}
		time.Sleep(time.Duration(v[0]) * time.Millisecond)
		c.sess.loop.Sync()
		return false, nil
	case "save":
		return false, c.save(strings.Join(rest, " "))
	case "open":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: open ID")
		}
		return false, c.openCartoon(rest[0])
	case "export":
		return false, c.export(rest)
	case "copy":
		var data []byte
		c.sess.do(func(st *studio.Studio) { data = st.Export() })
		if err := clipboard.WritePNG(data); err != nil {
			return false, err
		}
		c.notifier.Copy("cartoon")
		fmt.Fprintln(c.stdout, "copied to clipboard")
		return false, nil
	case "status":
		c.printStatus()
		return false, nil
	}
	return false, fmt.Errorf("unknown command %q (try 'help')", name)
}

func (c *interactiveCmd) setting(name string, rest []string) error {
	if len(rest) != 1 {
		return fmt.Errorf("usage: %s VALUE", name)
	}
	v := rest[0]
	var apply func(ss *tools.Session)
	switch name {
	case "tool":
		t, err := tools.ParseTool(v)
		if err != nil {
			return err
		}
		apply = func(ss *tools.Session) { ss.Tool = t }
	case "color":
		col, err := tools.ParseColor(v)
		if err != nil {
			return err
		}
		apply = func(ss *tools.Session) { ss.Color = col }
	case "cap":
		lc, err := raster.ParseLineCap(v)
		if err != nil {
			return err
		}
		apply = func(ss *tools.Session) { ss.Cap = lc }
	case "opacity", "textsize":
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", v)
		}
		if name == "opacity" {
			apply = func(ss *tools.Session) { ss.Opacity = f }
		} else {
			apply = func(ss *tools.Session) { ss.TextSize = f }
		}
	default:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid number %q", v)
		}
		switch name {
		case "size":
			apply = func(ss *tools.Session) { ss.Size = n }
		case "sides":
			apply = func(ss *tools.Session) { ss.PolygonSides = n }
		case "tolerance":
			apply = func(ss *tools.Session) { ss.Tolerance = n }
		}
	}
	c.sess.update(apply)
	return nil
}

// text stamps words at a point with the text tool, keeping the current
// tool selected afterwards.
func (c *interactiveCmd) text(rest []string) error {
	pt, err := point(rest)
	if err != nil {
		return err
	}
	words := strings.Join(rest[2:], " ")
	if words == "" {
		return fmt.Errorf("usage: text X Y WORDS...")
	}
	c.sess.do(func(st *studio.Studio) {
		prev := st.Session()
		next := prev
		next.Tool = tools.ToolText
		st.SetSession(next)
		c.sess.text = words
		err = st.Click(pt)
		c.sess.text = ""
		st.SetSession(prev)
	})
	return err
}

func (c *interactiveCmd) layer(rest []string) error {
	if len(rest) == 0 {
		return fmt.Errorf("usage: layer add|select|toggle|opacity|blend|rename ...")
	}
	op, rest := rest[0], rest[1:]
	if op == "add" {
		var (
			idx int
			err error
		)
		c.sess.do(func(st *studio.Studio) {
			if len(rest) > 0 {
				idx = st.AddLayerNamed(strings.Join(rest, " "))
				return
			}
			idx, err = st.AddLayer()
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "layer %d added\n", idx)
		return nil
	}
	v, err := ints(rest, 1)
	if err != nil {
		return err
	}
	i := v[0]
	switch op {
	case "select":
		c.sess.do(func(st *studio.Studio) { err = st.SelectLayer(i) })
	case "toggle":
		c.sess.do(func(st *studio.Studio) { _, err = st.ToggleVisibility(i) })
	case "opacity":
		if len(rest) < 2 {
			return fmt.Errorf("usage: layer opacity INDEX VALUE")
		}
		f, perr := strconv.ParseFloat(rest[1], 64)
		if perr != nil {
			return fmt.Errorf("invalid number %q", rest[1])
		}
		c.sess.do(func(st *studio.Studio) { err = st.SetLayerOpacity(i, f) })
	case "blend":
		if len(rest) < 2 {
			return fmt.Errorf("usage: layer blend INDEX MODE")
		}
		m, perr := raster.ParseBlendMode(rest[1])
		if perr != nil {
			return perr
		}
		c.sess.do(func(st *studio.Studio) { err = st.SetLayerBlend(i, m) })
	case "rename":
		if len(rest) < 2 {
			return fmt.Errorf("usage: layer rename INDEX NAME")
		}
		name := strings.Join(rest[1:], " ")
		c.sess.do(func(st *studio.Studio) {
			c.sess.text = name
			err = st.RenameLayer(i)
			c.sess.text = ""
		})
	default:
		return fmt.Errorf("unknown layer command %q", op)
	}
	return err
}

func (c *interactiveCmd) frame(rest []string) error {
	if len(rest) == 0 {
		return fmt.Errorf("usage: frame add|save|show|duration|rename ...")
	}
	op, rest := rest[0], rest[1:]
	if op == "add" {
		var idx int
		c.sess.do(func(st *studio.Studio) { idx = st.AddFrame() })
		fmt.Fprintf(c.stdout, "frame %d added\n", idx)
		return nil
	}
	v, err := ints(rest, 1)
	if err != nil {
		return err
	}
	i := v[0]
	switch op {
	case "save":
		c.sess.do(func(st *studio.Studio) { err = st.SaveFrame(i) })
	case "show":
		c.sess.do(func(st *studio.Studio) { err = st.SetActiveFrame(i) })
	case "duration":
		d, derr := ints(rest, 2)
		if derr != nil {
			return derr
		}
		c.sess.do(func(st *studio.Studio) { err = st.SetFrameDuration(i, time.Duration(d[1])*time.Millisecond) })
	case "rename":
		if len(rest) < 2 {
			return fmt.Errorf("usage: frame rename INDEX NAME")
		}
		c.sess.do(func(st *studio.Studio) { err = st.RenameFrame(i, strings.Join(rest[1:], " ")) })
	default:
		return fmt.Errorf("unknown frame command %q", op)
	}
	return err
}

func (c *interactiveCmd) save(name string) error {
	store, err := c.getStore()
	if err != nil {
		return err
	}
	doc, err := c.sess.save(context.Background(), store, name)
	if err != nil {
		return err
	}
	var img image.Image
	c.sess.do(func(st *studio.Studio) { img = st.Composite() })
	c.notifier.Save(doc.Name, img)
	fmt.Fprintf(c.stdout, "saved %q as %s\n", doc.Name, doc.ID)
	return nil
}

func (c *interactiveCmd) export(rest []string) error {
	path := core.ExportFileName(time.Now())
	if len(rest) > 0 {
		path = rest[0]
	}
	var data []byte
	c.sess.do(func(st *studio.Studio) { data = st.Export() })
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	c.notifier.Export(path)
	fmt.Fprintf(c.stdout, "exported %s\n", path)
	return nil
}

func (c *interactiveCmd) printLayers() {
	var ls []studio.LayerInfo
	c.sess.do(func(st *studio.Studio) { ls = st.Layers() })
	for i := len(ls) - 1; i >= 0; i-- {
		l := ls[i]
		marker, eye := " ", "visible"
		if l.Active {
			marker = "*"
		}
		if !l.Visible {
			eye = "hidden"
		}
		fmt.Fprintf(c.stdout, "%s %d: %-16s %3d%% %-10s %s\n", marker, l.Index, l.Name, int(l.Opacity*100+0.5), l.Blend, eye)
	}
}

func (c *interactiveCmd) printFrames() {
	var fs []studio.FrameInfo
	c.sess.do(func(st *studio.Studio) { fs = st.Frames() })
	if len(fs) == 0 {
		fmt.Fprintln(c.stdout, "no frames")
		return
	}
	for _, f := range fs {
		marker, note := " ", ""
		if f.Current {
			marker = "*"
		}
		if f.Stale {
			note = " (stale)"
		}
		fmt.Fprintf(c.stdout, "%s %d: %s %dms%s\n", marker, f.Index, f.Name, f.Duration.Milliseconds(), note)
	}
}

func (c *interactiveCmd) printStatus() {
	c.sess.do(func(st *studio.Studio) {
		ss := st.Session()
		w, h := st.Size()
		l := st.Layers()[st.ActiveLayer()]
		fmt.Fprintf(c.stdout, "canvas %dx%d\n", w, h)
		fmt.Fprintf(c.stdout, "tool %s color %s size %d opacity %.2f cap %s\n", ss.Tool, tools.FormatColor(ss.Color), ss.Size, ss.Opacity, ss.Cap)
		fmt.Fprintf(c.stdout, "layer %d %q of %d\n", st.ActiveLayer(), l.Name, len(st.Layers()))
		fmt.Fprintf(c.stdout, "frames %d playing %t\n", len(st.Frames()), st.Playing())
		fmt.Fprintf(c.stdout, "undo %t redo %t\n", st.CanUndo(), st.CanRedo())
	})
}

const interactiveHelp = `commands (indices start at 0):
  tool NAME | color C | size N | opacity A | cap round|square
  sides N | tolerance N | textsize PT
  down X Y | move X Y | up X Y | click X Y | text X Y WORDS...
  undo | redo | merge | clear
  layer add [NAME] | layer select I | layer toggle I
  layer opacity I V | layer blend I MODE | layer rename I NAME | layers
  frame add | frame save I | frame show I | frame duration I MS
  frame rename I NAME | frames | play [MS] | stop | wait MS
  save [NAME] | open ID | export [FILE] | copy | status | exit
`
