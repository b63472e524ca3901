// Package httpclient builds the pooled HTTP clients used for outgoing requests.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

type Config struct {
	Timeout time.Duration
	// EnvironmentProxy routes requests through HTTP_PROXY / HTTPS_PROXY.
	EnvironmentProxy bool
	// SkipVerify disables certificate checks.
	SkipVerify bool
}

// New returns a client over its own transport; reuse it across requests to
// benefit from connection pooling.
func New(conf Config) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if conf.EnvironmentProxy {
		transport.Proxy = http.ProxyFromEnvironment
	}
	if conf.SkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   conf.Timeout,
	}
}
