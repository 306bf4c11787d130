package executor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/spider-crawler/crawlcore/request"
)

// ChromeOptions configures a Chrome executor.
type ChromeOptions struct {
	// NavigationTimeout bounds how long a single page render may take.
	NavigationTimeout time.Duration
	// PoolSize caps how many Chrome tabs render concurrently.
	PoolSize int
}

// DefaultChromeOptions returns sensible defaults.
func DefaultChromeOptions() ChromeOptions {
	return ChromeOptions{
		NavigationTimeout: 30 * time.Second,
		PoolSize:          4,
	}
}

// Chrome is a chromedp-backed reference Executor for JavaScript-rendered
// pages. Grounded on the teacher's internal/renderer/renderer.go: a shared
// browser allocator context plus a bounded pool of tab contexts so at most
// PoolSize pages render concurrently, using the network CDP domain's
// response events to read the status code and headers of the page URL.
type Chrome struct {
	allocCtx context.Context
	cancel   context.CancelFunc

	sem chan struct{}
	mu  sync.Mutex
	opt ChromeOptions
}

// NewChrome starts a shared headless Chrome allocator.
func NewChrome(opts ChromeOptions) *Chrome {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 1
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	return &Chrome{
		allocCtx: allocCtx,
		cancel:   cancel,
		sem:      make(chan struct{}, opts.PoolSize),
		opt:      opts,
	}
}

// Execute implements Executor by navigating a fresh tab to req.URL,
// waiting for the page to load, and returning the rendered DOM as the
// response body.
func (c *Chrome) Execute(ctx context.Context, req *request.Request) (*request.Response, error) {
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx)
	defer tabCancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, c.opt.NavigationTimeout)
	defer timeoutCancel()

	var html string
	var status int64 = 200
	var headers map[string]any

	listenCtx, listenCancel := context.WithCancel(tabCtx)
	defer listenCancel()
	chromedp.ListenTarget(listenCtx, func(ev any) {
		if resp, ok := ev.(*network.EventResponseReceived); ok && resp.Response.URL == req.URL.String() {
			status = resp.Response.Status
			headers = resp.Response.Headers
		}
	})

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(req.URL.String()),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("executor: chrome navigation: %w", err)
	}

	hdr := make(map[string][]string, len(headers))
	for k, v := range headers {
		hdr[strings.ToLower(k)] = []string{fmt.Sprintf("%v", v)}
	}

	return &request.Response{
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: int(status),
		Header:     hdr,
		Body:       io.NopCloser(strings.NewReader(html)),
	}, nil
}

// Close shuts down the shared Chrome allocator.
func (c *Chrome) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
}
