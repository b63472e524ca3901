package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_Timeout(t *testing.T) {
	delayedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer delayedServer.Close()

	client := New(Config{Timeout: 50 * time.Millisecond})
	req, err := http.NewRequest(http.MethodGet, delayedServer.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 180*time.Millisecond {
		t.Errorf("request took %v, want it cut at the client timeout", elapsed)
	}
}

func TestNew_SelfSignedCertificate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := New(Config{Timeout: time.Second, SkipVerify: true}).Get(server.URL)
	if err != nil {
		t.Fatalf("self-signed certificate rejected: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestNew_IgnoresProxyEnvironment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("HTTP_PROXY", "http://127.0.0.1:1")
	t.Setenv("HTTPS_PROXY", "http://127.0.0.1:1")

	transport, ok := New(Config{Timeout: time.Second}).Transport.(*http.Transport)
	if !ok {
		t.Fatal("unexpected transport type")
	}
	if transport.Proxy != nil {
		t.Error("transport should not consult proxy settings")
	}

	resp, err := New(Config{Timeout: time.Second}).Get(server.URL)
	if err != nil {
		t.Fatalf("request went through the proxy: %v", err)
	}
	resp.Body.Close()
}

func TestNew_VerifiesCertificates(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := New(Config{Timeout: time.Second}).Get(server.URL)
	if err == nil {
		resp.Body.Close()
		t.Error("self-signed certificate accepted without SkipVerify")
	}
}

func TestNew_EnvironmentProxy(t *testing.T) {
	transport, ok := New(Config{Timeout: time.Second, EnvironmentProxy: true}).Transport.(*http.Transport)
	if !ok {
		t.Fatal("unexpected transport type")
	}
	if transport.Proxy == nil {
		t.Error("transport should consult proxy settings")
	}
}

func TestNew_ConnectionPooling(t *testing.T) {
	reqCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqCount++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Config{Timeout: time.Second})
	for i := 0; i < 5; i++ {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	if reqCount != 5 {
		t.Errorf("Expected 5 requests, got %d", reqCount)
	}
}
