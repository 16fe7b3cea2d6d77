package source

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"combopick/internal/infra/logx"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Limit is a per-host rate limit: RPS with a burst capacity.
type Limit struct {
	RPS   float64
	Burst int
}

// TransportOptions configures the retrying, rate-limited transport.
type TransportOptions struct {
	RetryMax    int
	BackoffBase time.Duration
	BackoffCap  time.Duration
	JitterFn    func(base time.Duration, attempt int) time.Duration
	Clock       Clock
	Metrics     *Metrics
	Limit       Limit  // applied to every host
	Token       string // sent as a bearer token when set
}

// DefaultTransportOptions returns defaults suited to fetching a single option list.
func DefaultTransportOptions() TransportOptions {
	return TransportOptions{
		RetryMax:    3,
		BackoffBase: 250 * time.Millisecond,
		BackoffCap:  5 * time.Second,
		Clock:       realClock{},
		JitterFn: func(base time.Duration, attempt int) time.Duration {
			if base <= 0 {
				return 0
			}
			return time.Duration(rand.Int63n(base.Nanoseconds()))
		},
		Metrics: NewMetrics(),
		Limit:   Limit{RPS: 5, Burst: 5},
	}
}

// tokenBucket is a per-host rate limiter with fractional tokens.
type tokenBucket struct {
	mu     sync.Mutex
	rps    float64
	burst  float64
	tokens float64
	last   time.Time
	clock  Clock
}

func newTokenBucket(lim Limit, clock Clock) *tokenBucket {
	if lim.RPS <= 0 {
		lim.RPS = 5
	}
	burst := float64(max(1, lim.Burst))
	return &tokenBucket{rps: lim.RPS, burst: burst, tokens: burst, last: clock.Now(), clock: clock}
}

func (tb *tokenBucket) refillLocked(now time.Time) {
	delta := now.Sub(tb.last).Seconds() * tb.rps
	if delta > 0 {
		tb.tokens = math.Min(tb.burst, tb.tokens+delta)
		tb.last = now
	}
}

func (tb *tokenBucket) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tb.mu.Lock()
		tb.refillLocked(tb.clock.Now())
		if tb.tokens >= 1 {
			tb.tokens--
			tb.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - tb.tokens) / tb.rps * float64(time.Second))
		tb.mu.Unlock()
		// sleep in small steps so cancellation is observed
		tb.clock.Sleep(min(max(wait, time.Millisecond), 5*time.Millisecond))
	}
}

// RetryingTransport wraps a base RoundTripper with per-host rate limiting,
// retries on transient failures, and bearer token injection.
type RetryingTransport struct {
	Base     http.RoundTripper
	Opts     TransportOptions
	limMu    sync.Mutex
	limiters map[string]*tokenBucket
}

// NewRetryingTransport creates a transport over http.DefaultTransport.
func NewRetryingTransport(opts TransportOptions) *RetryingTransport {
	if opts.Token != "" {
		logx.RegisterSecret(opts.Token)
	}
	return &RetryingTransport{Opts: opts, limiters: make(map[string]*tokenBucket)}
}

func (t *RetryingTransport) limiter(host string) *tokenBucket {
	if host == "" {
		host = "_default_"
	}
	t.limMu.Lock()
	defer t.limMu.Unlock()
	if tb, ok := t.limiters[host]; ok {
		return tb
	}
	tb := newTokenBucket(t.Opts.Limit, t.clock())
	t.limiters[host] = tb
	return tb
}

func (t *RetryingTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RetryingTransport) clock() Clock {
	if t.Opts.Clock != nil {
		return t.Opts.Clock
	}
	return realClock{}
}

func (t *RetryingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Opts.Token != "" && req.Header.Get("Authorization") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.Opts.Token)
	}

	lim := t.limiter(req.URL.Host)
	m := t.Opts.Metrics
	if m != nil {
		m.IncRequest(req.URL.Host)
	}
	rc := getRetryCounters(req.Context())

	attempts := max(1, t.Opts.RetryMax+1)
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := lim.Wait(req.Context()); err != nil {
			return nil, err
		}

		resp, err := t.base().RoundTrip(req)
		if err != nil {
			if isTransientNetErr(err) && attempt < attempts-1 {
				lastErr = err
				if rc != nil {
					rc.Total++
					rc.Net++
				}
				logx.With(logx.Fields{"url": req.URL.String(), "attempt": attempt + 1, "err": err}).Debug("source: retrying after network error")
				t.sleepBackoff(attempt)
				continue
			}
			return nil, err
		}
		if m != nil {
			m.IncStatus(resp.StatusCode)
		}
		if !shouldRetryStatus(resp.StatusCode) || attempt == attempts-1 {
			return resp, nil
		}

		resp.Body.Close()
		if m != nil {
			m.IncRetry()
		}
		if rc != nil {
			rc.Total++
			if resp.StatusCode == http.StatusTooManyRequests {
				rc.Status429++
			} else {
				rc.Status5xx++
			}
		}
		logx.With(logx.Fields{"url": req.URL.String(), "status": resp.StatusCode, "attempt": attempt + 1}).Debug("source: retrying")

		if ra := parseRetryAfter(resp.Header.Get("Retry-After"), t.clock().Now()); ra > 0 {
			d := min(ra, t.backoffCap())
			if m != nil {
				m.AddBackoff(d)
			}
			t.clock().Sleep(d)
			continue
		}
		t.sleepBackoff(attempt)
	}
	if lastErr == nil {
		lastErr = errors.New("max retries exceeded")
	}
	return nil, lastErr
}

func (t *RetryingTransport) backoffCap() time.Duration {
	if t.Opts.BackoffCap <= 0 {
		return 5 * time.Second
	}
	return t.Opts.BackoffCap
}

func (t *RetryingTransport) sleepBackoff(attempt int) {
	base := t.Opts.BackoffBase
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	limit := t.backoffCap()
	// exponential backoff: base * 2^attempt
	delay := min(time.Duration(float64(base)*math.Pow(2, float64(attempt))), limit)
	if t.Opts.JitterFn != nil {
		delay = min(delay+t.Opts.JitterFn(delay, attempt), limit)
	}
	t.clock().Sleep(delay)
	if t.Opts.Metrics != nil {
		t.Opts.Metrics.AddBackoff(delay)
	}
}

func isTransientNetErr(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "temporary") ||
		strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused")
}

func shouldRetryStatus(code int) bool {
	return code == 429 || code == 502 || code == 503 || code == 504
}

func parseRetryAfter(h string, now time.Time) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if when, err := http.ParseTime(h); err == nil {
		return max(0, when.Sub(now))
	}
	return 0
}
