package proxy

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultHTTPClientFactory builds HTTP clients, optionally routed through a proxy.
type DefaultHTTPClientFactory struct {
	timeout time.Duration
}

// NewHTTPClientFactory creates a factory whose clients use timeout as the
// overall request timeout. Zero means 60 seconds.
func NewHTTPClientFactory(timeout time.Duration) *DefaultHTTPClientFactory {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &DefaultHTTPClientFactory{timeout: timeout}
}

// ParseURL parses a proxy URL from configuration. An empty string yields nil.
func ParseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("unsupported proxy type: %s", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy URL %q has no host", raw)
	}
	return u, nil
}

// GetClient returns an HTTP client routed through proxyURL. A nil proxyURL
// falls back to the environment's proxy settings.
func (f *DefaultHTTPClientFactory) GetClient(proxyURL *url.URL) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxyURL != nil {
		switch proxyURL.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(proxyURL)
		case "socks5":
			dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer from %s: %w", proxyURL.Redacted(), err)
			}
			contextDialer, ok := dialer.(proxy.ContextDialer)
			if !ok {
				return nil, fmt.Errorf("SOCKS5 dialer does not implement proxy.ContextDialer")
			}
			transport.DialContext = contextDialer.DialContext
			transport.Proxy = nil
		default:
			return nil, fmt.Errorf("unsupported proxy type: %s", proxyURL.Scheme)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
	}, nil
}
