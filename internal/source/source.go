// Package source loads combobox options from text, JSON, TOML or an HTTP endpoint.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"combopick/internal/infra/logx"
	"combopick/internal/option"
)

var (
	// ErrUnknownFormat is returned for a format name that is not supported.
	ErrUnknownFormat = errors.New("unknown option format")
	// ErrEmpty is returned when a source yields no options.
	ErrEmpty = errors.New("no options")
)

// Format names an option encoding.
type Format string

const (
	FormatLines Format = "lines"
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
)

// ParseFormat validates a format name. The empty string means auto-detect.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatLines, FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat guesses a format from a file name.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatLines
	}
}

// Source produces the option set for one run.
type Source interface {
	Load(ctx context.Context) (option.Items, error)
}

// Decode parses data in the given format.
func Decode(f Format, data []byte) (option.Items, error) {
	var (
		items option.Items
		n     int
		err   error
	)
	switch f {
	case FormatLines, "":
		var l option.Labels
		l, err = decodeLines(data)
		items, n = l, len(l)
	case FormatJSON:
		items, n, err = decodeJSON(data)
	case FormatTOML:
		var r option.Records
		r, err = decodeTOML(data)
		items, n = r, len(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrEmpty
	}
	return items, nil
}

// decodeLines reads one option per line. Blank lines and lines starting
// with '#' are skipped.
func decodeLines(data []byte) (option.Labels, error) {
	var out option.Labels
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return out, nil
}

// decodeJSON accepts an array of strings or an array of option objects.
func decodeJSON(data []byte) (option.Items, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode json: %w", err)
	}
	if len(raw) == 0 {
		return option.Labels{}, 0, nil
	}
	if first := bytes.TrimSpace(raw[0]); len(first) > 0 && first[0] == '"' {
		var labels option.Labels
		if err := json.Unmarshal(data, &labels); err != nil {
			return nil, 0, fmt.Errorf("decode json labels: %w", err)
		}
		return labels, len(labels), nil
	}
	var recs option.Records
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, 0, fmt.Errorf("decode json options: %w", err)
	}
	recs = fillValues(recs)
	return recs, len(recs), nil
}

type tomlDoc struct {
	Option []option.Option `toml:"option"`
}

// decodeTOML reads [[option]] tables.
func decodeTOML(data []byte) (option.Records, error) {
	var doc tomlDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return fillValues(doc.Option), nil
}

// fillValues defaults a missing value to the label and drops entries that have neither.
func fillValues(recs []option.Option) option.Records {
	out := recs[:0]
	for _, o := range recs {
		if o.Value == "" {
			o.Value = o.Label
		}
		if o.Label == "" {
			o.Label = o.Value
		}
		if o.Value == "" {
			logx.Warnf("source: skipping option without label or value")
			continue
		}
		out = append(out, o)
	}
	return out
}

// Reader loads options from a stream such as stdin.
type Reader struct {
	R      io.Reader
	Format Format
}

func (s Reader) Load(ctx context.Context) (option.Items, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(s.R)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	return Decode(s.Format, data)
}

// File loads options from a path. An empty Format is detected from the extension.
type File struct {
	Path   string
	Format Format
}

func (s File) Load(ctx context.Context) (option.Items, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	f := s.Format
	if f == "" {
		f = DetectFormat(s.Path)
	}
	items, err := Decode(f, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	logx.Debugf("source: loaded %s as %s", s.Path, f)
	return items, nil
}

// Static wraps an in-memory option set.
type Static struct{ Items option.Items }

func (s Static) Load(context.Context) (option.Items, error) { return s.Items, nil }
