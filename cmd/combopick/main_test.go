package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combopick/internal/config"
	"combopick/internal/icons"
	"combopick/internal/source"
)

func parse(t *testing.T, args ...string) (flags, []string, *config.Config) {
	t.Helper()
	var f flags
	fs := newFlagSet(&f)
	require.NoError(t, fs.Parse(args))
	cfg := config.Default()
	applyFlags(fs, f, cfg)
	return f, fs.Args(), cfg
}

// pipe returns a non-terminal stand-in for stdin.
func pipe(t *testing.T) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close(); w.Close() })
	return r
}

func TestFlagsOverrideConfig(t *testing.T) {
	_, _, cfg := parse(t, "-l", "Region", "--collapsed", "--icons", "ascii", "-p", "Pick one")
	assert.Equal(t, "Region", cfg.Label)
	assert.True(t, cfg.Collapsed)
	assert.Equal(t, "ascii", cfg.Icons)
	assert.Equal(t, "Pick one", cfg.Placeholder)
	assert.Equal(t, config.Default().SearchPlaceholder, cfg.SearchPlaceholder, "unset flags keep config")
}

func TestBuildSourceFromFile(t *testing.T) {
	f, args, cfg := parse(t, "-f", "json", "opts.txt")
	src, err := buildSource(f, args, cfg, pipe(t))
	require.NoError(t, err)
	assert.Equal(t, source.File{Path: "opts.txt", Format: source.FormatJSON}, src)
}

func TestBuildSourceFromStdin(t *testing.T) {
	stdin := pipe(t)
	f, args, cfg := parse(t)
	src, err := buildSource(f, args, cfg, stdin)
	require.NoError(t, err)
	assert.IsType(t, source.Reader{}, src)

	f, args, cfg = parse(t, "-")
	src, err = buildSource(f, args, cfg, stdin)
	require.NoError(t, err)
	assert.IsType(t, source.Reader{}, src)
}

func TestBuildSourceFromDevNull(t *testing.T) {
	// a character device that is not a terminal still counts as piped input
	null, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer null.Close()

	f, args, cfg := parse(t)
	src, err := buildSource(f, args, cfg, null)
	require.NoError(t, err)
	assert.IsType(t, source.Reader{}, src)
}

func TestBuildSourceFromURL(t *testing.T) {
	f, args, cfg := parse(t, "-u", "https://example.test/options")
	cfg.Remote.TimeoutMS = 1500
	src, err := buildSource(f, args, cfg, pipe(t))
	require.NoError(t, err)
	r, ok := src.(source.Remote)
	require.True(t, ok)
	assert.Equal(t, "https://example.test/options", r.URL)
	assert.Equal(t, 1500*time.Millisecond, r.Timeout)
	assert.Equal(t, source.FormatJSON, r.Format)
}

func TestBuildSourceErrors(t *testing.T) {
	f, args, cfg := parse(t, "-f", "yaml", "x")
	_, err := buildSource(f, args, cfg, pipe(t))
	assert.ErrorIs(t, err, source.ErrUnknownFormat)

	f, args, cfg = parse(t, "-u", "https://example.test", "file.txt")
	_, err = buildSource(f, args, cfg, pipe(t))
	assert.Error(t, err)

	f, args, cfg = parse(t, "a", "b")
	_, err = buildSource(f, args, cfg, pipe(t))
	assert.Error(t, err)
}

func TestComboConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Icons = "ascii"
	cfg.MaxVisible = 4
	cfg.DebounceMS = 30
	cfg.Filter.MaxResults = 7

	cc := comboConfig(cfg)
	assert.Equal(t, icons.For("ascii"), cc.Icons)
	assert.Equal(t, 4, cc.MaxVisible)
	assert.Equal(t, 30*time.Millisecond, cc.Debounce)
	assert.Equal(t, 7, cc.Filter.MaxResults)
}

func TestRunRejectsBadInvocations(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, exitError, run([]string{"--no-such-flag"}, pipe(t), &out, &errOut))

	missing := filepath.Join(t.TempDir(), "missing.toml")
	errOut.Reset()
	assert.Equal(t, exitError, run([]string{"-c", missing, "x.txt"}, pipe(t), &out, &errOut))
	assert.Contains(t, errOut.String(), "combopick:")

	errOut.Reset()
	assert.Equal(t, exitError, run([]string{"--icons", "emoji", "x.txt"}, pipe(t), &out, &errOut))
	assert.Contains(t, errOut.String(), "icons")

	assert.Empty(t, out.String())
}

func TestRunHelp(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, exitNone, run([]string{"--help"}, pipe(t), &out, &errOut))
	assert.Contains(t, errOut.String(), "Usage: combopick")
}
