package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greqerr"
	"golang.org/x/time/rate"
)

// retryDelay is the fixed, deterministic delay between retry attempts
// triggered by number-of-retries on a transport failure. §9's Design Notes
// ask the implementer to choose and document a fixed policy rather than
// exponential backoff; a single rate.Limiter burst-of-one models a
// deterministic fixed cadence the same way the teacher's bounded-worker
// channels model a fixed concurrency cap, rather than a bare time.Sleep
// loop.
const retryDelay = 200 * time.Millisecond

// ClientOption configures a Client, following the teacher's functional
// options convention.
type ClientOption func(*Client)

// Client executes merged, substituted Tests over real HTTP/HTTPS.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// WithTransport overrides the underlying http.RoundTripper, used by tests
// to point at an httptest.Server without touching DNS/TLS.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// NewClient builds a Client with sane connection-pool defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			// Redirects are followed by the default http.Client
			// policy; the core does not reinterpret them.
		},
		limiter: rate.NewLimiter(rate.Every(retryDelay), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute builds and sends the request described by test's merged Content,
// applying timeout and number-of-retries, and returns the normalized
// Response, per §4.8.
func (c *Client) Execute(ctx context.Context, test *ast.Test) (*Response, error) {
	timeout := time.Duration(test.Header.TimeoutMillis) * time.Millisecond
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	attempts := int(test.Header.NumberOfRetries) + 1
	// Each call paces its own retries with a fresh limiter whose single
	// token the first attempt takes, so consecutive attempts start at least
	// retryDelay apart regardless of other Tests sharing this Client.
	limiter := rate.NewLimiter(c.limiter.Limit(), 1)
	limiter.Allow()
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := limiter.Wait(reqCtx); err != nil {
				return nil, greqerr.Wrap(greqerr.Timeout, test.Path, err)
			}
		}

		resp, err := c.attempt(reqCtx, test)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if reqCtx.Err() != nil {
			return nil, greqerr.Wrap(greqerr.Timeout, test.Path, reqCtx.Err())
		}
	}
	return nil, greqerr.Wrap(greqerr.HTTPTransport, test.Path, lastErr)
}

func (c *Client) attempt(ctx context.Context, test *ast.Test) (*Response, error) {
	url, err := buildURL(test)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if test.Content.HasBody {
		bodyReader = bytes.NewReader(test.Content.Body)
	}

	req, err := http.NewRequestWithContext(ctx, test.Content.RequestLine.Method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	test.Content.Headers.Each(func(name, value string) {
		if strings.EqualFold(name, "host") {
			req.Host = value
			return
		}
		req.Header.Add(name, value)
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	latency := time.Since(start)

	headers := &ast.HeaderList{}
	for name, values := range resp.Header {
		for _, v := range values {
			headers.Add(name, v)
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       body,
		Latency:    latency,
	}, nil
}

// buildURL assembles scheme, host, and the request-line URI per §4.8:
// is-http selects the scheme (true -> http, false -> https, matching the
// header's documented meaning of "is this a plain HTTP endpoint"). A port
// is taken only from the host header; without one the scheme's default
// (80/443) applies. The URI is always appended as a path (a leading '/' is
// added when missing); a port or host written inside the URI is not used.
func buildURL(test *ast.Test) (string, error) {
	host, ok := test.Content.Headers.Get("host")
	if !ok || host == "" {
		return "", greqerr.At(greqerr.MissingHost, test.Path, "merged Content has no host header")
	}

	scheme := "https"
	if test.Header.IsHTTP {
		scheme = "http"
	}

	hostPort := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		// host has no explicit port; leave it unqualified and let the
		// scheme's standard default apply (80/443), matching most HTTP
		// libraries' behavior for a bare hostname.
		_ = err
	}

	uri := test.Content.RequestLine.URI
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}

	return fmt.Sprintf("%s://%s%s", scheme, hostPort, uri), nil
}
