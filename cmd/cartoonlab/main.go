package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/config"
	"github.com/example/cartoonlab/internal/core"
	"github.com/example/cartoonlab/internal/notify"
	"github.com/example/cartoonlab/internal/stores"
	"github.com/example/cartoonlab/internal/studio"
	"github.com/example/cartoonlab/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	verbose     bool
	themeName   string
	activeTheme *theme.Theme
	saveAlerts  bool
	exportAlert bool
	copyAlerts  bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// openStore is replaced in tests.
	openStore func() (core.CartoonStore, error)
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subcommand(name string) *root {
	child := *r
	child.program = strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	child.fs = nil
	return &child
}

func newRoot() *root {
	r := &root{
		fs:       flag.NewFlagSet("cartoonlab", flag.ContinueOnError),
		program:  "cartoonlab",
		notifier: notify.New(notify.LoadPreferences()),
		config:   config.New(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.openStore = r.defaultStore
	r.fs.SetOutput(io.Discard)
	r.fs.BoolVar(&r.verbose, "v", false, "enable debug logging")
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "path to the config file")
	// Precedence: CLI > Env > Config > Default. An empty flag falls through
	// to the config, which already carries CARTOONLAB_THEME.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme for the editor (default, light, dark, candy or a .theme file)")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving a cartoon")
	r.fs.BoolVar(&r.exportAlert, "notify-export", false, "show a desktop notification after exporting a PNG")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

// loadConfig reads the rc file and applies its defaults to flags the user
// did not set.
func (r *root) loadConfig() {
	loader := config.NewLoader(version, r.configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
		cfg.ApplyEnv()
	}
	r.config = cfg

	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-save"] {
		r.saveAlerts = cfg.Notify.Save
	}
	if !set["notify-export"] {
		r.exportAlert = cfg.Notify.Export
	}
	if !set["notify-copy"] {
		r.copyAlerts = cfg.Notify.Copy
	}
}

func (r *root) loadTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		return theme.Default()
	}
	return t
}

func (r *root) defaultStore() (core.CartoonStore, error) {
	opts := stores.Options{
		Type:       r.config.Store,
		Path:       r.config.SaveDir,
		DataSource: r.config.DataSource,
	}
	return stores.GetStore(opts.FromEnv())
}

// studioOptions turns the configuration into studio settings.
func (r *root) studioOptions() []studio.Option {
	cfg := r.config
	return []studio.Option{
		studio.WithSize(cfg.Canvas.Width, cfg.Canvas.Height),
		studio.WithBackground(cfg.Canvas.Background),
		studio.WithSession(cfg.Brush),
		studio.WithHistoryCapacity(cfg.History.Capacity),
		studio.WithHistoryScope(cfg.History.Scope),
		studio.WithFrameDuration(cfg.Animation.FrameDuration),
	}
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &UsageError{of: r}
		}
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	level := config.LogLevel(logrus.WarnLevel)
	if r.verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	r.loadConfig()
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventExport, r.exportAlert)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.loadTheme()

	return r.dispatch(r.fs.Arg(0), r.fs.Args()[1:])
}

func (r *root) dispatch(cmdName string, subArgs []string) error {
	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "list":
		cmd, err = parseListCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "tools":
		cmd, err = parseToolsCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "blends":
		cmd, err = parseBlendsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
