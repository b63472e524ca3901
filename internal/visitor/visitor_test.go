package visitor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
)

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
}

func newTestVisitor(conf Config) (*Visitor, *sleepRecorder) {
	v := New(conf)
	rec := &sleepRecorder{}
	v.sleep = rec.sleep
	return v, rec
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com/path", true},
		{"http://localhost:8080", true},
		{"http://10.0.0.1", true},
		{"not a url", false},
		{"", false},
		{"http://", false},
		{"example.com", false},
		{"mailto:someone@example.com", false},
		{"://missing-scheme", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateURL(%q) error = %v, valid %v", tt.url, err, tt.valid)
			}
			if err != nil && !errors.Is(err, entity.ErrInvalidURL) {
				t.Errorf("ValidateURL(%q) error = %v, want ErrInvalidURL", tt.url, err)
			}
		})
	}
}

func TestVisitor_Visit(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/old":
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		case "/new":
			w.WriteHeader(http.StatusNoContent)
		default:
			gotUA = r.Header.Get("User-Agent")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
		}
	}))
	defer server.Close()

	v, rec := newTestVisitor(Config{Timeout: time.Second, MaxRetries: 2})
	v.intN = func(n int) int { return n - 1 }

	outcome := v.Visit(context.Background(), server.URL+"/", 3*time.Second)
	if outcome.Kind != entity.OutcomeVisited || outcome.StatusCode != http.StatusOK {
		t.Errorf("Visit() = %v, want visited 200", outcome)
	}
	if want := userAgents[len(userAgents)-1]; gotUA != want {
		t.Errorf("User-Agent = %q, want %q", gotUA, want)
	}

	outcome = v.Visit(context.Background(), server.URL+"/old", time.Second)
	if outcome.StatusCode != http.StatusNoContent {
		t.Errorf("redirect not followed, status = %d", outcome.StatusCode)
	}

	if len(rec.waits) != 2 || rec.waits[0] != 3*time.Second || rec.waits[1] != time.Second {
		t.Errorf("waits = %v, want [3s 1s]", rec.waits)
	}
}

func TestVisitor_Visit_InvalidURL(t *testing.T) {
	v, rec := newTestVisitor(Config{})
	v.client = &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		t.Error("no request expected for an invalid url")
		return nil, errors.New("unreachable")
	})}

	outcome := v.Visit(context.Background(), "not a url", time.Second)
	if outcome.Kind != entity.OutcomeInvalidURL {
		t.Errorf("Visit() kind = %s, want %s", outcome.Kind, entity.OutcomeInvalidURL)
	}
	if !errors.Is(outcome.Err, entity.ErrInvalidURL) {
		t.Errorf("Visit() err = %v, want ErrInvalidURL", outcome.Err)
	}
	if len(rec.waits) != 0 {
		t.Errorf("invalid url should not wait, waits = %v", rec.waits)
	}
}

func TestVisitor_Visit_Retries(t *testing.T) {
	tests := []struct {
		name         string
		maxRetries   int
		failures     int
		err          error
		wantAttempts int
		wantKind     entity.OutcomeKind
	}{
		{
			name:         "recovers after connection failures",
			maxRetries:   2,
			failures:     2,
			err:          &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			wantAttempts: 3,
			wantKind:     entity.OutcomeVisited,
		},
		{
			name:         "gives up after retries",
			maxRetries:   2,
			failures:     10,
			err:          &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			wantAttempts: 3,
			wantKind:     entity.OutcomeFailed,
		},
		{
			name:         "dns failure retried",
			maxRetries:   1,
			failures:     10,
			err:          &net.DNSError{Err: "no such host", Name: "nowhere.invalid"},
			wantAttempts: 2,
			wantKind:     entity.OutcomeFailed,
		},
		{
			name:         "protocol error not retried",
			maxRetries:   2,
			failures:     10,
			err:          errors.New("malformed HTTP response"),
			wantAttempts: 1,
			wantKind:     entity.OutcomeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, rec := newTestVisitor(Config{MaxRetries: tt.maxRetries})
			attempts := 0
			v.client = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				attempts++
				if attempts <= tt.failures {
					return nil, tt.err
				}
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
			})}

			outcome := v.Visit(context.Background(), "https://example.com", 2*time.Second)
			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if outcome.Kind != tt.wantKind {
				t.Errorf("Visit() kind = %s, want %s", outcome.Kind, tt.wantKind)
			}
			if tt.wantKind == entity.OutcomeFailed && !errors.Is(outcome.Err, entity.ErrRequest) {
				t.Errorf("Visit() err = %v, want ErrRequest", outcome.Err)
			}
			if len(rec.waits) != 1 || rec.waits[0] != 2*time.Second {
				t.Errorf("waits = %v, want [2s] regardless of outcome", rec.waits)
			}
		})
	}
}

func TestVisitor_Visit_TimeoutDoesNotBlockNext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			time.Sleep(300 * time.Millisecond)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v, _ := newTestVisitor(Config{Timeout: 50 * time.Millisecond, MaxRetries: 0})

	slow := v.Visit(context.Background(), server.URL+"/slow", 0)
	if slow.Kind != entity.OutcomeFailed {
		t.Errorf("slow Visit() kind = %s, want %s", slow.Kind, entity.OutcomeFailed)
	}
	fast := v.Visit(context.Background(), server.URL+"/fast", 0)
	if fast.Kind != entity.OutcomeVisited || fast.StatusCode != http.StatusOK {
		t.Errorf("fast Visit() = %v, want visited 200", fast)
	}
}

func TestVisitor_Visit_SelfSignedCertificate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v, _ := newTestVisitor(Config{Timeout: time.Second})
	outcome := v.Visit(context.Background(), server.URL, 0)
	if outcome.Kind != entity.OutcomeVisited || outcome.StatusCode != http.StatusOK {
		t.Errorf("Visit() = %v, want visited 200", outcome)
	}
}

func TestVisitor_UserAgent(t *testing.T) {
	agents := DefaultUserAgents()
	if len(agents) < 5 {
		t.Fatalf("identity table has %d entries, want at least 5", len(agents))
	}
	mobile, desktop := false, false
	for _, ua := range agents {
		if strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad") {
			mobile = true
		}
		if strings.Contains(ua, "Windows NT") {
			desktop = true
		}
	}
	if !mobile || !desktop {
		t.Errorf("identity table should span desktop and mobile, got %v", agents)
	}

	v := New(Config{UserAgents: []string{"a", "b"}})
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[v.UserAgent()] = true
	}
	if !seen["a"] || !seen["b"] || len(seen) != 2 {
		t.Errorf("UserAgent() picked %v, want both a and b", seen)
	}
}

func TestVisitor_ConfigIsolated(t *testing.T) {
	agents := []string{"one"}
	v := New(Config{UserAgents: agents})
	agents[0] = "changed"
	if v.UserAgent() != "one" {
		t.Error("visitor should keep its own copy of the identity table")
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	sleepContext(ctx, time.Minute)
	if time.Since(start) > time.Second {
		t.Error("sleepContext() should return when the context is done")
	}
}
