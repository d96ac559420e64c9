package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/example/cartoonlab/internal/clipboard"
	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/render"
)

type exportCmd struct {
	*root
	fs *flag.FlagSet

	toClipboard bool
	shadow      bool
	backup      string

	id     string
	output string
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	e := &exportCmd{root: r.subcommand("export"), fs: newFlagSet("export")}
	e.fs.Usage = usageFunc(e)
	e.fs.BoolVar(&e.toClipboard, "to-clipboard", false, "copy the image to the clipboard instead of writing a file")
	e.fs.BoolVar(&e.toClipboard, "to-clip", false, "copy the image to the clipboard (alias)")
	e.fs.BoolVar(&e.shadow, "shadow", false, "add a drop shadow around the exported image")
	e.fs.StringVar(&e.backup, "backup", "", "write every saved cartoon to this JSON file (- for stdout)")
	if err := parseFlags(e.fs, args, e); err != nil {
		return nil, err
	}
	if e.backup != "" {
		if e.fs.NArg() != 0 {
			return nil, &UsageError{of: e, msg: "-backup takes no cartoon id"}
		}
		return e, nil
	}
	switch e.fs.NArg() {
	case 1:
		e.id = e.fs.Arg(0)
	case 2:
		e.id, e.output = e.fs.Arg(0), e.fs.Arg(1)
	default:
		return nil, &UsageError{of: e}
	}
	if e.toClipboard && e.output != "" {
		return nil, fmt.Errorf("-to-clipboard cannot be combined with an output file")
	}
	return e, nil
}

func (e *exportCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func (e *exportCmd) Run() error {
	ctx := context.Background()
	store, err := e.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if e.backup != "" {
		return e.runBackup(ctx, store)
	}

	doc, err := store.Get(ctx, e.id)
	if err != nil {
		return err
	}
	data, err := e.render(doc)
	if err != nil {
		return err
	}

	if e.toClipboard {
		if err := clipboard.WritePNG(data); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		e.notifier.Copy(doc.Name)
		fmt.Fprintf(e.stderr, "copied %q to clipboard\n", doc.Name)
		return nil
	}

	path := e.output
	if path == "" {
		path = core.ExportFileName(time.Now())
	}
	if err := writePNG(path, data); err != nil {
		return err
	}
	e.notifier.Export(path)
	fmt.Fprintln(e.stdout, path)
	return nil
}

// render returns the PNG to export, decorated with a shadow when asked.
func (e *exportCmd) render(doc *core.Cartoon) ([]byte, error) {
	if len(doc.Image) == 0 {
		return nil, fmt.Errorf("cartoon %s has no image", doc.ID)
	}
	if !e.shadow {
		return doc.Image, nil
	}
	img, err := png.Decode(bytes.NewReader(doc.Image))
	if err != nil {
		return nil, fmt.Errorf("decode cartoon %s: %w", doc.ID, err)
	}
	return encodePNG(render.ApplyShadow(img, render.DefaultShadowOptions()))
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exportCmd) runBackup(ctx context.Context, store core.CartoonStore) error {
	backup, err := core.CollectBackup(ctx, store, time.Now())
	if err != nil {
		return err
	}
	out := e.stdout
	if e.backup != "-" {
		f, err := os.Create(e.backup)
		if err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	if e.backup != "-" {
		fmt.Fprintf(e.stderr, "backed up %d cartoons to %s\n", len(backup.Cartoons), e.backup)
	}
	return nil
}
