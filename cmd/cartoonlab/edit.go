package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/editor"
)

type editCmd struct {
	*root
	fs   *flag.FlagSet
	open string
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	e := &editCmd{root: r.subcommand("edit"), fs: newFlagSet("edit")}
	e.fs.Usage = usageFunc(e)
	e.fs.StringVar(&e.open, "open", "", "id of a saved cartoon to open")
	if err := parseFlags(e.fs, args, e); err != nil {
		return nil, err
	}
	if e.fs.NArg() > 1 {
		return nil, &UsageError{of: e}
	}
	if e.fs.NArg() == 1 && e.open == "" {
		e.open = e.fs.Arg(0)
	}
	return e, nil
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func (e *editCmd) Run() error {
	store, err := e.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	opts := []editor.Option{
		editor.WithStudioOptions(e.studioOptions()...),
		editor.WithTheme(e.activeTheme),
		editor.WithStore(store),
		editor.WithNotifier(e.notifier),
		editor.WithSaveDir(e.config.SaveDir),
	}
	if e.open != "" {
		var doc *core.Cartoon
		if doc, err = store.Get(context.Background(), e.open); err != nil {
			return err
		}
		opts = append(opts, editor.WithDocument(doc))
	}
	return editor.New(opts...).Run()
}
