package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combopick/internal/option"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "lines", "JSON", " toml "} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("yaml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("opts.JSON"))
	assert.Equal(t, FormatTOML, DetectFormat("a/b/opts.toml"))
	assert.Equal(t, FormatLines, DetectFormat("opts.txt"))
	assert.Equal(t, FormatLines, DetectFormat("-"))
}

func TestDecodeLinesSkipsBlanksAndComments(t *testing.T) {
	items, err := Decode(FormatLines, []byte("# envs\nstaging\n\n  production  \n#dev\n"))
	require.NoError(t, err)
	assert.Equal(t, option.Labels{"staging", "production"}, items)
}

func TestDecodeJSONStrings(t *testing.T) {
	items, err := Decode(FormatJSON, []byte(`["a", "b"]`))
	require.NoError(t, err)
	assert.Equal(t, option.Labels{"a", "b"}, items)
}

func TestDecodeJSONObjects(t *testing.T) {
	items, err := Decode(FormatJSON, []byte(`[
		{"label": "Staging", "value": "stg", "icon": "S"},
		{"label": "Prod"},
		{"value": "dev"},
		{"icon": "?"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, option.Records{
		{Label: "Staging", Value: "stg", Icon: "S"},
		{Label: "Prod", Value: "Prod"},
		{Label: "dev", Value: "dev"},
	}, items)
}

func TestDecodeTOML(t *testing.T) {
	doc := `
[[option]]
label = "Staging"
value = "stg"

[[option]]
label = "Production"
value = "prod"
icon = "P"
`
	items, err := Decode(FormatTOML, []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, option.Records{
		{Label: "Staging", Value: "stg"},
		{Label: "Production", Value: "prod", Icon: "P"},
	}, items)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(FormatJSON, []byte(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = Decode(FormatTOML, []byte(`[[option]`))
	assert.Error(t, err)

	_, err = Decode(FormatJSON, []byte(`[]`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode(FormatLines, []byte("# only a comment\n"))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode(Format("xml"), []byte("<a/>"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileDetectsFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.json")
	require.NoError(t, os.WriteFile(path, []byte(`["x"]`), 0o600))

	items, err := File{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, option.Labels{"x"}, items)

	_, err = File{Path: filepath.Join(dir, "missing.txt")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReaderLoad(t *testing.T) {
	items, err := Reader{R: strings.NewReader("one\ntwo\n")}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, option.Labels{"one", "two"}, items)
}

func TestRemoteLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"label": "Alpha", "value": "a"}]`))
	}))
	defer srv.Close()

	opts := testOptions(newFakeClock())
	opts.Token = "tok"
	items, err := NewRemote(srv.URL, time.Second, opts).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, option.Records{{Label: "Alpha", Value: "a"}}, items)
	assert.Equal(t, int64(1), opts.Metrics.TotalRequests.Load())
}

func TestRemoteRetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`["a", "b"]`))
	}))
	defer srv.Close()

	fc := newFakeClock()
	opts := testOptions(fc)
	items, err := NewRemote(srv.URL, time.Second, opts).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, option.Labels{"a", "b"}, items)
	assert.Equal(t, int64(2), hits.Load())
	assert.Equal(t, time.Second, fc.slept)
}

func TestRemoteNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, time.Second, testOptions(newFakeClock())).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
