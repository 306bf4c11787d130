package request

import (
	"io"
	"net/http"
	"net/url"
)

// Response is an HTTP response value owned by its consumer: it is built
// once by an Executor and never mutated after delivery. Body is a lazy
// byte stream — nothing is read from the wire beyond headers until the
// spider's parser consumes Body.
type Response struct {
	Method     Method
	URL        *url.URL
	StatusCode int
	Status     string
	Header     http.Header
	Body       io.ReadCloser
}

// IsSuccess reports whether StatusCode is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Close releases the underlying body reader. Safe to call even if the
// spider never read the body.
func (r *Response) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}
