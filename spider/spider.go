// Package spider defines the Spider contract (spec.md C6): the
// user-supplied logic that seeds a crawl and turns each response into
// either further requests or items of type T.
//
// Grounded on original_source/src/spider.rs (trait Spider { fn start(&self)
// -> RequestStream; fn parse(&self, resp: Response) -> ParseStream<Item>; }),
// translated from a single poll-driven trait method into a goroutine that
// produces a channel, matching how the teacher's internal/parser/parser.go
// and internal/fetcher/fetcher.go hand off work across goroutine boundaries
// rather than returning synchronously.
package spider

import (
	"context"

	"github.com/spider-crawler/crawlcore/request"
	"github.com/spider-crawler/crawlcore/streamutil"
)

// Parse is the tagged union a Spider's Parse method yields for each
// response: either a further Request to schedule, or an extracted Item of
// type T. Exactly one of the two is populated, selected by IsRequest.
type Parse[T any] struct {
	IsRequest bool
	Request   *request.Request
	Item      T
}

// AsRequest builds a Parse that schedules req.
func AsRequest[T any](req *request.Request) Parse[T] {
	return Parse[T]{IsRequest: true, Request: req}
}

// AsItem builds a Parse that yields item.
func AsItem[T any](item T) Parse[T] {
	return Parse[T]{IsRequest: false, Item: item}
}

// Spider is the user-supplied crawl logic, parameterized over the item
// type T it extracts. Start seeds the crawl with the initial request
// stream; Parse is invoked once per scheduled response and yields further
// requests and/or items.
type Spider[T any] interface {
	// Name identifies the spider, e.g. for logging.
	Name() string

	// Start returns the stream of seed requests. Implementations should
	// close the returned channel once every seed has been sent.
	Start(ctx context.Context) (<-chan streamutil.Result[*request.Request], error)

	// Parse is invoked once per response the scheduler produces and
	// returns the stream of requests/items it yields. Implementations
	// should close the returned channel once parsing that response is
	// complete.
	Parse(ctx context.Context, resp *request.Response) (<-chan streamutil.Result[Parse[T]], error)
}
