package main

import (
	"flag"
	"fmt"

	"github.com/example/cartoonlab/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := &configCmd{root: r.subcommand("config"), fs: newFlagSet("config")}
	c.fs.Usage = usageFunc(c)
	if err := parseFlags(c.fs, args, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Fprint(c.stdout, c.config.String())
		return nil
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave() error {
	// Save where the loader would read from, falling back to the XDG path.
	path := c.configPath
	if path == "" {
		path = config.NewLoader(version, "").GetConfigPath()
	}
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: home directory unknown")
	}
	if err := c.config.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "Configuration saved to %s\n", path)
	return nil
}
