package lens

import (
	"net/http"
	"strings"
	"time"
)

// Default configuration for lens clients.
// Override per-client with [WithBaseURL], [WithTimeout], or [WithHTTPClient].
const (
	// DefaultBaseURL points at the hosted Lens API.
	DefaultBaseURL = "https://api.tupl.xyz"

	// DefaultTimeout bounds each request. Reasoning runs can be slow, so the
	// default is generous; tune it down for latency-sensitive callers.
	DefaultTimeout = 300 * time.Second
)

// clientConfig holds resolved construction parameters for a facade.
// Configuration is explicit and per-client so that multiple clients with
// different targets can coexist.
type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a [QueryProcessor] or [SteeringManager] at construction.
type Option func(*clientConfig)

// WithBaseURL sets the base URL of the Lens API server.
// A trailing slash is stripped.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client (for proxies, custom transports,
// or sharing a connection pool between facades). When set, the client's own
// timeout applies and [WithTimeout] is ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// newClientConfig applies opts over the defaults.
func newClientConfig(opts ...Option) clientConfig {
	cfg := clientConfig{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
