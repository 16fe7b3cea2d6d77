package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"combopick/internal/icons"
	"combopick/internal/infra/logx"
)

const (
	appName   = "combopick"
	envPrefix = "COMBOPICK_"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Label             string `koanf:"label"`              // accessible name, popover title is Label+"s"
	Placeholder       string `koanf:"placeholder"`        // trigger text with no selection
	SearchPlaceholder string `koanf:"search_placeholder"` // filter field hint
	Collapsed         bool   `koanf:"collapsed"`
	Icons             string `koanf:"icons"` // "nerd", "unicode" or "ascii"
	MaxVisible        int    `koanf:"max_visible"`
	Width             int    `koanf:"width"`
	DebounceMS        int    `koanf:"debounce_ms"`

	Filter FilterConfig `koanf:"filter"`
	Remote RemoteConfig `koanf:"remote"`

	// Files lists the config files that were read, in load order.
	Files []string `koanf:"-"`
}

type FilterConfig struct {
	MinCoverage float64 `koanf:"min_coverage"`
	MaxSpread   int     `koanf:"max_spread"`
	MaxResults  int     `koanf:"max_results"`
}

type RemoteConfig struct {
	TimeoutMS int    `koanf:"timeout_ms"`
	RetryMax  int    `koanf:"retry_max"`
	Token     string `koanf:"token"`
	TokenFile string `koanf:"token_file"` // KEY=VALUE file holding the token
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Label:             "Option",
		Placeholder:       "Select an option",
		SearchPlaceholder: "Search…",
		Icons:             string(icons.StyleUnicode),
		MaxVisible:        8,
		Width:             32,
		Filter: FilterConfig{
			MinCoverage: 0.6,
			MaxSpread:   40,
			MaxResults:  200,
		},
		Remote: RemoteConfig{
			TimeoutMS: 10000,
			RetryMax:  3,
		},
	}
}

// envKeys are the keys that COMBOPICK_* variables may override.
var envKeys = []string{
	"label", "placeholder", "search_placeholder", "collapsed", "icons",
	"max_visible", "width", "debounce_ms",
	"filter.min_coverage", "filter.max_spread", "filter.max_results",
	"remote.timeout_ms", "remote.retry_max", "remote.token", "remote.token_file",
}

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Paths returns the implicit config files in load order; later files win.
func Paths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		appName + ".toml",
	}
}

// Load reads the implicit config files, then explicit when non-empty, then
// COMBOPICK_* environment overrides. Missing implicit files are skipped; a
// missing explicit file is an error.
func Load(explicit string) (*Config, error) {
	return load(Paths(), explicit, os.LookupEnv)
}

func load(paths []string, explicit string, lookup func(string) (string, bool)) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		cfg.Files = append(cfg.Files, path)
	}
	if explicit != "" {
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
		}
		cfg.Files = append(cfg.Files, explicit)
	}

	for _, key := range envKeys {
		if v, ok := lookup(EnvName(key)); ok {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("env %s: %w", EnvName(key), err)
			}
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Remote.Token == "" && cfg.Remote.TokenFile != "" {
		tok, err := ReadTokenFile(expandPath(cfg.Remote.TokenFile))
		if err != nil {
			return nil, err
		}
		cfg.Remote.Token = tok
	}
	logx.RegisterSecret(cfg.Remote.Token)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logx.Debugf("config: loaded %v", cfg.Files)
	return cfg, nil
}

// ReadTokenFile reads a single KEY=VALUE line and returns VALUE.
func ReadTokenFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	parts := strings.SplitN(strings.TrimSpace(string(b)), "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("%w: token file %s: want KEY=VALUE", ErrInvalid, path)
	}
	return strings.TrimSpace(parts[1]), nil
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Validate rejects out-of-range settings.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(icons.Valid(c.Icons), "icons must be nerd, unicode or ascii, got %q", c.Icons)
	check(c.MaxVisible >= 1 && c.MaxVisible <= 100, "max_visible must be 1..100, got %d", c.MaxVisible)
	check(c.Width >= 16 && c.Width <= 400, "width must be 16..400, got %d", c.Width)
	check(c.DebounceMS >= 0 && c.DebounceMS <= 5000, "debounce_ms must be 0..5000, got %d", c.DebounceMS)
	check(c.Filter.MinCoverage >= 0 && c.Filter.MinCoverage <= 1, "filter.min_coverage must be 0..1, got %g", c.Filter.MinCoverage)
	check(c.Filter.MaxSpread >= 0, "filter.max_spread must be >= 0, got %d", c.Filter.MaxSpread)
	check(c.Filter.MaxResults >= 1, "filter.max_results must be >= 1, got %d", c.Filter.MaxResults)
	check(c.Remote.TimeoutMS > 0, "remote.timeout_ms must be > 0, got %d", c.Remote.TimeoutMS)
	check(c.Remote.RetryMax >= 0 && c.Remote.RetryMax <= 10, "remote.retry_max must be 0..10, got %d", c.Remote.RetryMax)
	return errors.Join(errs...)
}

// Debounce is DebounceMS as a duration.
func (c *Config) Debounce() time.Duration { return time.Duration(c.DebounceMS) * time.Millisecond }

// Timeout is Remote.TimeoutMS as a duration.
func (c *Config) Timeout() time.Duration { return time.Duration(c.Remote.TimeoutMS) * time.Millisecond }
