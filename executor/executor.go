// Package executor provides Executor, the "opaque executor mapping a
// request to a future of a response" spec.md §1 treats as an external
// collaborator, plus reference implementations the engine itself never
// imports: HTTP (net/http) and Chrome (chromedp, for JS-rendered pages).
package executor

import (
	"context"

	"github.com/spider-crawler/crawlcore/request"
)

// Executor executes a single Request and returns its Response. The
// scheduler is the sole caller; it never inspects an Executor's internals.
type Executor interface {
	Execute(ctx context.Context, req *request.Request) (*request.Response, error)
}
