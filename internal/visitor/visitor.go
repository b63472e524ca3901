// Package visitor performs single keep-alive requests.
package visitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
	"github.com/Dreaeast/worker-keep-online/internal/httpclient"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2

	// drainLimit bounds how much of a body is discarded to reuse the connection.
	drainLimit = 64 << 10
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	// UserAgents is copied on construction; empty means DefaultUserAgents.
	UserAgents []string
}

// Visitor issues GET requests over one shared client that ignores proxy
// settings and certificate errors. It is used from a single goroutine.
type Visitor struct {
	client     *http.Client
	userAgents []string
	maxRetries int
	intN       func(n int) int
	sleep      func(ctx context.Context, d time.Duration)
}

func New(conf Config) *Visitor {
	if conf.Timeout <= 0 {
		conf.Timeout = DefaultTimeout
	}
	if conf.MaxRetries < 0 {
		conf.MaxRetries = DefaultMaxRetries
	}
	agents := append([]string(nil), conf.UserAgents...)
	if len(agents) == 0 {
		agents = DefaultUserAgents()
	}
	return &Visitor{
		client:     httpclient.New(httpclient.Config{Timeout: conf.Timeout, SkipVerify: true}),
		userAgents: agents,
		maxRetries: conf.MaxRetries,
		intN:       rand.IntN,
		sleep:      sleepContext,
	}
}

// ValidateURL requires a scheme and a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", entity.ErrInvalidURL, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q: scheme and host are required", entity.ErrInvalidURL, raw)
	}
	return nil
}

// Visit requests rawURL once and then waits. Invalid URLs are skipped without
// waiting. Request failures are logged and returned as a Failed outcome.
func (v *Visitor) Visit(ctx context.Context, rawURL string, wait time.Duration) entity.Outcome {
	if err := ValidateURL(rawURL); err != nil {
		slog.Warn("invalid url", "url", rawURL, "error", err)
		return entity.SkippedInvalidURL(rawURL, err)
	}

	slog.Info("visiting", "url", rawURL)
	outcome := v.request(ctx, rawURL)
	if outcome.Kind == entity.OutcomeVisited {
		slog.Info("status", "url", rawURL, "code", outcome.StatusCode)
	} else {
		slog.Error("visit failed", "url", rawURL, "error", outcome.Err)
	}

	v.sleep(ctx, wait)
	return outcome
}

// UserAgent picks an identity uniformly at random.
func (v *Visitor) UserAgent() string {
	return v.userAgents[v.intN(len(v.userAgents))]
}

func (v *Visitor) request(ctx context.Context, rawURL string) (outcome entity.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = entity.Failed(rawURL, fmt.Errorf("%w: %v", entity.ErrUnexpected, r))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return entity.Failed(rawURL, fmt.Errorf("%w: %w", entity.ErrRequest, err))
	}
	setHeader(req, v.UserAgent())

	var resp *http.Response
	for attempt := 0; attempt <= v.maxRetries; attempt++ {
		resp, err = v.client.Do(req)
		if err == nil || !isConnectionError(err) {
			break
		}
		slog.Debug("connection failed", "url", rawURL, "attempt", attempt+1, "error", err)
	}
	if err != nil {
		return entity.Failed(rawURL, fmt.Errorf("%w: %w", entity.ErrRequest, err))
	}
	defer func(Body io.ReadCloser) {
		_, _ = io.Copy(io.Discard, io.LimitReader(Body, drainLimit))
		if err := Body.Close(); err != nil {
			slog.Error("failed to close response body", "url", rawURL, "err", err)
		}
	}(resp.Body)

	return entity.Visited(rawURL, resp.StatusCode)
}

func setHeader(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
}

// isConnectionError reports failures to reach the server at all.
func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
