package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/cartoonlab/internal/raster"
	"github.com/example/cartoonlab/internal/tools"
)

type listCmd struct {
	*root
	fs *flag.FlagSet
}

func parseListCmd(args []string, r *root) (*listCmd, error) {
	cmd := &listCmd{root: r.subcommand("list"), fs: newFlagSet("list")}
	cmd.fs.Usage = usageFunc(cmd)
	if err := parseFlags(cmd.fs, args, cmd); err != nil {
		return nil, err
	}
	if cmd.fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *listCmd) Run() error {
	store, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	cartoons, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(cartoons) == 0 {
		fmt.Fprintln(c.stdout, "no saved cartoons")
		return nil
	}
	for _, ct := range cartoons {
		fmt.Fprintf(c.stdout, "%s  %4dx%-4d  %s  %s\n", ct.ID, ct.Width, ct.Height, ct.UpdatedAt.Local().Format("2006-01-02 15:04"), ct.Name)
	}
	return nil
}

type toolsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	cmd := &toolsCmd{root: r.subcommand("tools"), fs: newFlagSet("tools")}
	cmd.fs.Usage = usageFunc(cmd)
	if err := parseFlags(cmd.fs, args, cmd); err != nil {
		return nil, err
	}
	if cmd.fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *toolsCmd) Run() error {
	def := c.config.Brush.Tool
	fmt.Fprintln(c.stdout, "available tools (* marks the configured tool):")
	for i, t := range tools.Tools() {
		marker := " "
		if t == def {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %d: %s\n", marker, (i+1)%10, t)
	}
	return nil
}

func (c *toolsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *toolsCmd) Template() string {
	return "tools.txt"
}

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	cmd := &colorsCmd{root: r.subcommand("colors"), fs: newFlagSet("colors")}
	cmd.fs.Usage = usageFunc(cmd)
	if err := parseFlags(cmd.fs, args, cmd); err != nil {
		return nil, err
	}
	if cmd.fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	def := c.config.Brush.Color
	fmt.Fprintln(c.stdout, "preset colors (* marks the configured color):")
	for idx, p := range tools.Presets() {
		marker := " "
		if p.Color == def {
			marker = "*"
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", p.Color.R, p.Color.G, p.Color.B)
		fmt.Fprintf(c.stdout, "%s %2d: %s %s\n", marker, idx, tools.FormatColor(p.Color), block)
	}
	fmt.Fprintln(c.stdout, "any CSS color name or #rgb/#rrggbb value is also accepted")
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Template() string {
	return "colors.txt"
}

type blendsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseBlendsCmd(args []string, r *root) (*blendsCmd, error) {
	cmd := &blendsCmd{root: r.subcommand("blends"), fs: newFlagSet("blends")}
	cmd.fs.Usage = usageFunc(cmd)
	if err := parseFlags(cmd.fs, args, cmd); err != nil {
		return nil, err
	}
	if cmd.fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *blendsCmd) Run() error {
	fmt.Fprintln(c.stdout, "layer blend modes:")
	for _, m := range raster.BlendModes() {
		fmt.Fprintf(c.stdout, "  %s\n", m)
	}
	return nil
}

func (c *blendsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *blendsCmd) Template() string {
	return "blends.txt"
}
