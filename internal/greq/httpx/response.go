// Package httpx builds requests from a merged ast.Content and captures the
// normalized Response model, per §4.8 and §4.9.
package httpx

import (
	"strconv"
	"time"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greq/jsonpath"
)

// Response is the normalized outcome of one HTTP call.
type Response struct {
	StatusCode int
	Headers    *ast.HeaderList
	Body       []byte
	Latency    time.Duration
}

// StatusCodeString renders the status code as decimal text.
func (r *Response) StatusCodeString() string {
	return strconv.Itoa(r.StatusCode)
}

// LatencyMillisString renders the latency as decimal milliseconds.
func (r *Response) LatencyMillisString() string {
	return strconv.FormatInt(r.Latency.Milliseconds(), 10)
}

// HeaderValue returns the first value of name, or "" if absent.
func (r *Response) HeaderValue(name string) string {
	v, _ := r.Headers.Get(name)
	return v
}

// BodyString decodes the body as UTF-8 text, using the replacement
// character for invalid bytes (lossy), per §4.10.
func (r *Response) BodyString() string {
	return lossyUTF8(r.Body)
}

// JSONPath looks up path in the body, returning ("path not found", false)
// on any parse or navigation failure, per §4.9.
func (r *Response) JSONPath(path string) (string, bool) {
	v, ok := jsonpath.Lookup(r.Body, path)
	if !ok {
		return "path not found", false
	}
	return v, true
}

func lossyUTF8(b []byte) string {
	return string([]rune(string(b)))
}
