package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"combopick/internal/infra/logx"
	"combopick/internal/option"
)

const maxRemoteBody = 8 << 20

// Remote fetches options over HTTP GET. The body is decoded as Format,
// JSON when unset.
type Remote struct {
	URL     string
	Format  Format
	Timeout time.Duration
	Client  *http.Client
}

// NewRemote builds a Remote whose client goes through a RetryingTransport.
func NewRemote(url string, timeout time.Duration, opts TransportOptions) Remote {
	return Remote{
		URL:     url,
		Format:  FormatJSON,
		Timeout: timeout,
		Client:  &http.Client{Transport: NewRetryingTransport(opts)},
	}
}

func (s Remote) Load(ctx context.Context) (option.Items, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	rc := &RetryCounters{}
	req, err := http.NewRequestWithContext(WithRetryCounters(ctx, rc), http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.URL, err)
	}
	logx.With(logx.Fields{
		"url":      s.URL,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"retries":  rc.Total,
		"duration": time.Since(start).String(),
	}).Debug("source: fetched")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", s.URL, resp.StatusCode)
	}
	f := s.Format
	if f == "" {
		f = FormatJSON
	}
	items, err := Decode(f, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.URL, err)
	}
	return items, nil
}
