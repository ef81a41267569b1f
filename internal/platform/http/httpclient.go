// Package http builds the outbound HTTP client used by remote API adapters.
package http

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig tunes the outbound client. Zero values take the defaults of NewHTTPClient.
type ClientConfig struct {
	Timeout             time.Duration // whole request, including reading the body
	DialTimeout         time.Duration
	TLSHandshakeTimeout time.Duration
	MaxIdleConnsPerHost int
}

// NewHTTPClient returns a client with explicit timeouts; http.DefaultClient has none.
// The backfill talks to a single host sequentially, so a couple of idle connections suffice.
func NewHTTPClient(cfg ClientConfig) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.TLSHandshakeTimeout <= 0 {
		cfg.TLSHandshakeTimeout = 5 * time.Second
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = 2
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: t}
}
