package executor

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spider-crawler/crawlcore/request"
)

// RedirectPolicy controls which redirects HTTP follows.
type RedirectPolicy string

const (
	RedirectFollow     RedirectPolicy = "follow"     // follow every redirect
	RedirectNoFollow   RedirectPolicy = "no_follow"   // never follow
	RedirectFollowSame RedirectPolicy = "follow_same" // follow only same-host redirects
)

// HTTPOptions configures an HTTP executor.
type HTTPOptions struct {
	UserAgent      string
	Timeout        time.Duration
	MaxRedirects   int
	MaxBodySize    int64
	RedirectPolicy RedirectPolicy
}

// DefaultHTTPOptions returns sensible defaults, mirroring the teacher's
// config.DefaultConfig() fields relevant to fetching.
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		UserAgent:      "crawlcore/1.0",
		Timeout:        30 * time.Second,
		MaxRedirects:   10,
		MaxBodySize:    10 * 1024 * 1024,
		RedirectPolicy: RedirectFollow,
	}
}

// HTTP is a net/http-backed reference Executor. Grounded on the teacher's
// internal/fetcher/fetcher.go: a custom transport for connection pooling,
// manual redirect tracking (CheckRedirect returns http.ErrUseLastResponse
// so the loop can inspect each hop itself), and gzip body handling —
// adapted to return a lazy Response.Body instead of reading the whole
// response up front.
type HTTP struct {
	client    *http.Client
	transport *http.Transport
	opts      HTTPOptions
}

// NewHTTP creates an HTTP executor.
func NewHTTP(opts HTTPOptions) *HTTP {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTP{
		transport: transport,
		opts:      opts,
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Execute implements Executor.
func (e *HTTP) Execute(ctx context.Context, req *request.Request) (*request.Response, error) {
	currentURL := req.URL

	for hop := 0; hop <= e.opts.MaxRedirects; hop++ {
		httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), currentURL.String(), bodyReader(req))
		if err != nil {
			return nil, fmt.Errorf("executor: building request: %w", err)
		}
		e.setHeaders(httpReq, req)

		resp, err := e.client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("executor: %w", err)
		}

		if isRedirect(resp.StatusCode) {
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if location == "" {
				return toResponse(req.Method, currentURL, resp, io.NopCloser(bytes.NewReader(nil))), nil
			}
			next, err := currentURL.Parse(location)
			if err != nil {
				return nil, fmt.Errorf("executor: invalid redirect location %q: %w", location, err)
			}
			if !e.shouldFollow(req.URL, next) {
				return toResponse(req.Method, currentURL, resp, io.NopCloser(bytes.NewReader(nil))), nil
			}
			currentURL = next
			continue
		}

		body, err := e.lazyBody(resp)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("executor: decoding body: %w", err)
		}
		return toResponse(req.Method, currentURL, resp, body), nil
	}

	return nil, fmt.Errorf("executor: max redirects (%d) exceeded", e.opts.MaxRedirects)
}

func (e *HTTP) setHeaders(httpReq *http.Request, req *request.Request) {
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", e.opts.UserAgent)
	}
	if httpReq.Header.Get("Accept-Encoding") == "" {
		httpReq.Header.Set("Accept-Encoding", "gzip")
	}
}

func (e *HTTP) shouldFollow(original, next *url.URL) bool {
	switch e.opts.RedirectPolicy {
	case RedirectNoFollow:
		return false
	case RedirectFollowSame:
		return strings.EqualFold(original.Host, next.Host)
	default:
		return true
	}
}

// lazyBody wraps resp.Body (un-gzipping it if necessary) in a
// size-limited, still-lazy io.ReadCloser: nothing is read here, only the
// decoding pipeline is assembled.
func (e *HTTP) lazyBody(resp *http.Response) (io.ReadCloser, error) {
	var reader io.Reader = resp.Body
	var extra io.Closer

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = gz
		extra = gz
	}

	limited := io.LimitReader(reader, e.opts.MaxBodySize)
	return &limitedBody{r: limited, inner: resp.Body, extra: extra}, nil
}

// limitedBody closes both the gzip reader (if any) and the underlying
// socket body when done.
type limitedBody struct {
	r     io.Reader
	inner io.ReadCloser
	extra io.Closer
}

func (b *limitedBody) Read(p []byte) (int, error) { return b.r.Read(p) }

func (b *limitedBody) Close() error {
	if b.extra != nil {
		b.extra.Close()
	}
	return b.inner.Close()
}

// Close releases idle connections.
func (e *HTTP) Close() {
	e.transport.CloseIdleConnections()
}

func bodyReader(req *request.Request) io.Reader {
	if req.Body == nil {
		return nil
	}
	return bytes.NewReader(req.Body.Bytes())
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

func toResponse(method request.Method, u *url.URL, resp *http.Response, body io.ReadCloser) *request.Response {
	return &request.Response{
		Method:     method,
		URL:        u,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
	}
}
