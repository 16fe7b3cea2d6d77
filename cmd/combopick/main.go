package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"combopick/internal/combobox"
	"combopick/internal/config"
	"combopick/internal/filter"
	"combopick/internal/history"
	"combopick/internal/icons"
	"combopick/internal/infra/logx"
	"combopick/internal/source"
	"combopick/internal/ui"
)

const (
	exitChosen = 0
	exitNone   = 1
	exitError  = 2
)

type flags struct {
	config            string
	format            string
	url               string
	label             string
	value             string
	display           string
	placeholder       string
	searchPlaceholder string
	collapsed         bool
	icons             string
	remember          string
	debug             bool
}

func newFlagSet(f *flags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("combopick", pflag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "config file (TOML)")
	fs.StringVarP(&f.format, "format", "f", "", "option format: lines, json or toml (default: from file extension)")
	fs.StringVarP(&f.url, "url", "u", "", "load options from URL (JSON)")
	fs.StringVarP(&f.label, "label", "l", "", "accessible name and popover title")
	fs.StringVarP(&f.value, "value", "v", "", "initially selected value")
	fs.StringVarP(&f.display, "display", "d", "", "trigger label for the initial value")
	fs.StringVarP(&f.placeholder, "placeholder", "p", "", "trigger text when nothing is selected")
	fs.StringVarP(&f.searchPlaceholder, "search-placeholder", "s", "", "filter field hint")
	fs.BoolVar(&f.collapsed, "collapsed", false, "icon-only trigger")
	fs.StringVar(&f.icons, "icons", "", "glyph set: nerd, unicode or ascii")
	fs.StringVarP(&f.remember, "remember", "r", "", "remember the choice under KEY and preselect it next time")
	fs.BoolVar(&f.debug, "debug", false, "write debug logs to combopick.log")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: combopick [flags] [file|-]\n\nPrints the chosen value. Exit status 1 when nothing is chosen.\n\n")
		fs.PrintDefaults()
	}
	return fs
}

// applyFlags overrides config values with the flags that were set.
func applyFlags(fs *pflag.FlagSet, f flags, cfg *config.Config) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("label", func() { cfg.Label = f.label })
	set("placeholder", func() { cfg.Placeholder = f.placeholder })
	set("search-placeholder", func() { cfg.SearchPlaceholder = f.searchPlaceholder })
	set("collapsed", func() { cfg.Collapsed = f.collapsed })
	set("icons", func() { cfg.Icons = f.icons })
}

// buildSource picks the option source from --url, a file argument, or stdin.
func buildSource(f flags, args []string, cfg *config.Config, stdin *os.File) (source.Source, error) {
	format, err := source.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("expected at most one file, got %d", len(args))
	}

	switch {
	case f.url != "":
		if len(args) > 0 {
			return nil, errors.New("--url and a file argument are mutually exclusive")
		}
		opts := source.DefaultTransportOptions()
		opts.RetryMax = cfg.Remote.RetryMax
		opts.Token = cfg.Remote.Token
		r := source.NewRemote(f.url, cfg.Timeout(), opts)
		if format != "" {
			r.Format = format
		}
		return r, nil
	case len(args) == 1 && args[0] != "-":
		return source.File{Path: args[0], Format: format}, nil
	case len(args) == 1 || !term.IsTerminal(int(stdin.Fd())):
		return source.Reader{R: stdin, Format: format}, nil
	default:
		return nil, errors.New("no options: pass a file, '-' for stdin, or --url")
	}
}

func comboConfig(cfg *config.Config) combobox.Config {
	cc := combobox.DefaultConfig()
	cc.Filter = filter.Config{
		MinCoverage: cfg.Filter.MinCoverage,
		MaxSpread:   cfg.Filter.MaxSpread,
		MaxResults:  cfg.Filter.MaxResults,
	}
	cc.Icons = icons.For(cfg.Icons)
	cc.MaxVisible = cfg.MaxVisible
	cc.Width = cfg.Width
	cc.Debounce = cfg.Debounce()
	return cc
}

func run(argv []string, stdin *os.File, stdout, stderr io.Writer) int {
	var f flags
	fs := newFlagSet(&f)
	fs.SetOutput(stderr)
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitNone
		}
		return exitError
	}

	if f.debug || len(os.Getenv("DEBUG")) > 0 {
		lf, err := logx.ToFile("combopick.log")
		if err != nil {
			fmt.Fprintln(stderr, "combopick:", err)
			return exitError
		}
		defer lf.Close()
		log.SetFlags(0)
		log.SetOutput(logx.StdlogWriter(logx.LevelDebug, lf))
	}

	cfg, err := config.Load(f.config)
	if err != nil {
		logx.Errorf("config: %v", err)
		fmt.Fprintln(stderr, "combopick:", err)
		return exitError
	}
	applyFlags(fs, f, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "combopick:", err)
		return exitError
	}

	src, err := buildSource(f, fs.Args(), cfg, stdin)
	if err != nil {
		fmt.Fprintln(stderr, "combopick:", err)
		return exitError
	}

	var store *history.Store
	if f.remember != "" {
		if store, err = history.Open(); err != nil {
			logx.Warnf("history unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	model := ui.New(ui.Options{
		Source: src,
		Props: combobox.Props{
			SelectedValue:     f.value,
			DisplayValue:      f.display,
			AriaLabel:         cfg.Label,
			SearchPlaceholder: cfg.SearchPlaceholder,
			SelectPlaceholder: cfg.Placeholder,
			IsCollapsed:       cfg.Collapsed,
		},
		Combo:       comboConfig(cfg),
		History:     store,
		RememberKey: f.remember,
		Timeout:     cfg.Timeout(),
		OpenOnStart: true,
	})

	// the value goes to stdout, so the interface draws on stderr
	final, err := tea.NewProgram(model,
		tea.WithOutput(stderr),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	).Run()
	if err != nil {
		logx.Errorf("program: %v", err)
		fmt.Fprintln(stderr, "combopick:", err)
		return exitError
	}

	res := final.(ui.Model).Result()
	switch {
	case res.Err != nil:
		fmt.Fprintln(stderr, "combopick:", res.Err)
		return exitError
	case !res.Chosen:
		return exitNone
	}
	fmt.Fprintln(stdout, res.Value)
	return exitChosen
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
