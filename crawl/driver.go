// Package crawl wires the scheduler, a Spider, the RFP filter, and the
// stream-combinator primitives in streamutil into the fixed-point crawl
// loop spec.md §4.7 describes: schedule → respond → parse → fork into
// requests (re-scheduled, after dedup) and items (selected into the
// crawl's output) → repeat until the scheduler drains and no parse is
// outstanding.
//
// Grounded on original_source/src/crawler.rs's Crawl::poll, which loops:
// poll the scheduler for a response, spawn a parse future for it, poll
// every outstanding parse future, fork each parsed value by is_request,
// route requests back into the scheduler and items into a SelectAll.
package crawl

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spider-crawler/crawlcore/digest"
	"github.com/spider-crawler/crawlcore/request"
	"github.com/spider-crawler/crawlcore/rfp"
	"github.com/spider-crawler/crawlcore/scheduler"
	"github.com/spider-crawler/crawlcore/spider"
	"github.com/spider-crawler/crawlcore/streamutil"
	"github.com/spider-crawler/crawlcore/workerpool"
)

// digestConcurrency bounds how many requests have their digest computed at
// once (spec.md §4.4/§5's "buffered concurrency 4").
const digestConcurrency = 4

// Logger is the minimal logging capability Driver needs.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// ParsePlacement selects where a Spider's Parse method runs.
type ParsePlacement int

const (
	// OnPool runs Parse on the shared worker pool, off the driver's own
	// goroutines — the default, matching spec.md §4.8's "CPU-bound work
	// stays off the I/O path" design.
	OnPool ParsePlacement = iota
	// SameThread runs Parse synchronously in the per-response goroutine
	// that handles it, instead of on the worker pool, for spiders with no
	// meaningful CPU cost to offload.
	SameThread
)

// Driver runs one crawl to completion for a single Spider[T], yielding
// extracted items on Items(). The Scheduler it drives is owned by the
// caller (handed to crawl.Builder before construction, per spec.md §6's
// CrawlerBuilder::new(scheduler)) and outlives any single Driver: a Driver
// only ever stops consuming/producing on it, never tears it down.
type Driver[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc

	sp    spider.Spider[T]
	sched *scheduler.Scheduler
	rfp   *rfp.Filter
	pool  *workerpool.Pool
	log   Logger

	placement ParsePlacement

	sel         *streamutil.Selector[T]
	parsesInFlt atomic.Int32

	doneOnce sync.Once
}

// newDriver constructs a Driver over sched. Callers go through
// Crawler.Crawl, never this directly.
func newDriver[T any](ctx context.Context, cancel context.CancelFunc, sp spider.Spider[T], sched *scheduler.Scheduler, pool *workerpool.Pool, log Logger, placement ParsePlacement) *Driver[T] {
	d := &Driver[T]{
		ctx:       ctx,
		cancel:    cancel,
		sp:        sp,
		sched:     sched,
		rfp:       rfp.New(log),
		pool:      pool,
		log:       log,
		placement: placement,
		sel:       streamutil.NewSelector[T](0),
	}
	go d.run()
	return d
}

// Items returns the channel of extracted items. It closes once the crawl
// has fully drained: the scheduler is done and no parse is outstanding.
func (d *Driver[T]) Items() <-chan T {
	return d.sel.Out()
}

// Stop ends this crawl early. The underlying Scheduler is left running —
// it is the caller's resource, not the Driver's.
func (d *Driver[T]) Stop() {
	d.cancel()
}

func (d *Driver[T]) run() {
	seeds, err := d.sp.Start(d.ctx)
	if err != nil {
		if d.log != nil {
			d.log.Errorf("crawl: spider %s Start failed: %v", d.sp.Name(), err)
		}
		d.sel.Close()
		return
	}
	d.seedRequests(seeds)

	go d.watchDone()

	for {
		select {
		case resp, ok := <-d.sched.Responses():
			if !ok {
				return
			}
			d.parsesInFlt.Add(1)
			resp := resp
			go d.handleResponse(resp)
		case <-d.ctx.Done():
			return
		}
	}
}

// seedRequests routes the Spider's seed stream through TerminateOnError
// and into the scheduler, exactly like any other request branch.
func (d *Driver[T]) seedRequests(seeds <-chan streamutil.Result[*request.Request]) {
	reqs := streamutil.TerminateOnError[*request.Request](seeds, d.log)
	d.sched.Schedule(d.digestAndFilter(reqs))
}

// handleResponse runs the Spider's Parse for one response (on the worker
// pool or inline, per placement), forks the result stream by IsRequest,
// re-schedules the request branch through dedup, and pushes the item
// branch into the output Selector.
func (d *Driver[T]) handleResponse(resp *request.Response) {
	defer d.parsesInFlt.Add(-1)

	runParse := func() <-chan streamutil.Result[spider.Parse[T]] {
		out, err := d.sp.Parse(d.ctx, resp)
		if err != nil {
			if d.log != nil {
				d.log.Errorf("crawl: spider %s Parse failed for %v: %v", d.sp.Name(), resp.URL, err)
			}
			empty := make(chan streamutil.Result[spider.Parse[T]])
			close(empty)
			return empty
		}
		return out
	}

	var parsed <-chan streamutil.Result[spider.Parse[T]]
	if d.placement == OnPool && d.pool != nil {
		parsed = <-workerpool.Submit(d.pool, runParse)
	} else {
		parsed = runParse()
	}

	values := streamutil.TerminateOnError[spider.Parse[T]](parsed, d.log)

	prongs := streamutil.Fork[spider.Parse[T], bool](values, func(p spider.Parse[T]) bool {
		return p.IsRequest
	})

	for prong := range prongs {
		prong := prong
		switch prong.Route {
		case true:
			d.sched.Schedule(d.digestAndFilter(requestsOf[T](prong.C())))
		case false:
			d.sel.Push(itemsOf[T](prong.C()))
		}
	}
}

// digestAndFilter computes each request's digest on up to digestConcurrency
// requests at once — offloaded to the worker pool when one is configured —
// and runs the results through the RFP filter before they reach the
// scheduler. Because up to digestConcurrency digests are in flight
// simultaneously, pairs reach the filter in the order their digest futures
// complete, not necessarily the order requests were submitted (spec.md
// §4.4/§5).
func (d *Driver[T]) digestAndFilter(reqs <-chan *request.Request) <-chan *request.Request {
	pairs := make(chan rfp.Pair)
	go func() {
		defer close(pairs)

		var wg sync.WaitGroup
		sem := make(chan struct{}, digestConcurrency)

		for req := range reqs {
			req := req
			sem <- struct{}{}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				var sum digest.Digest
				if d.pool != nil {
					sum = <-workerpool.Submit(d.pool, func() digest.Digest { return digest.Sum(req) })
				} else {
					sum = digest.Sum(req)
				}
				pairs <- rfp.Pair{Digest: sum, Request: req}
			}()
		}
		wg.Wait()
	}()
	return d.rfp.Unique(pairs)
}

func requestsOf[T any](in <-chan spider.Parse[T]) <-chan *request.Request {
	out := make(chan *request.Request)
	go func() {
		defer close(out)
		for p := range in {
			out <- p.Request
		}
	}()
	return out
}

func itemsOf[T any](in <-chan spider.Parse[T]) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for p := range in {
			out <- p.Item
		}
	}()
	return out
}

// watchDone polls for crawl completion: the scheduler has nothing queued
// or in flight, and no parse is currently running. On completion it
// cancels the Driver's own context (ending run's select loop) and closes
// the output Selector — the Scheduler itself is left exactly as it was,
// since the caller may reuse it for another crawl.
func (d *Driver[T]) watchDone() {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-d.ctx.Done():
			d.doneOnce.Do(d.sel.Close)
			return
		case <-ticker.C:
			if d.sched.IsDone() && d.parsesInFlt.Load() == 0 {
				d.doneOnce.Do(func() {
					d.cancel()
					d.sel.Close()
				})
				return
			}
		}
	}
}
