package crawl

import (
	"context"

	"github.com/spider-crawler/crawlcore/logging"
	"github.com/spider-crawler/crawlcore/scheduler"
	"github.com/spider-crawler/crawlcore/spider"
	"github.com/spider-crawler/crawlcore/workerpool"
)

// Options configures a Crawler. The zero value plus Builder's defaults is
// a usable configuration (spec.md §4.8).
type Options struct {
	Logger         Logger
	Pool           *workerpool.Pool
	ParsePlacement ParsePlacement
}

// Builder assembles a Crawler[T] over a caller-supplied Scheduler. No I/O
// is performed until Crawl is called — constructing a Builder, or setting
// any of its options, never touches the network or spawns goroutines.
type Builder[T any] struct {
	sched *scheduler.Scheduler
	opts  Options
}

// NewBuilder starts a Builder that drives sched. sched is owned by the
// caller: it can be configured before this call (concurrency cap,
// executor) and reused across multiple Crawl calls or even multiple
// Crawlers, matching spec.md §6's CrawlerBuilder::new(scheduler) contract.
func NewBuilder[T any](sched *scheduler.Scheduler) *Builder[T] {
	return &Builder[T]{
		sched: sched,
		opts: Options{
			Logger:         logging.NewStd(nil),
			ParsePlacement: OnPool,
		},
	}
}

// WithLogger sets the logger used by the RFP filter and driver.
func (b *Builder[T]) WithLogger(log Logger) *Builder[T] {
	b.opts.Logger = log
	return b
}

// WithPool sets the worker pool used for digest computation and, per
// WithParsePlacement, optionally for Parse itself. If unset, each Crawl
// call creates its own pool sized to runtime.GOMAXPROCS(0) and closes it
// when that crawl ends.
func (b *Builder[T]) WithPool(pool *workerpool.Pool) *Builder[T] {
	b.opts.Pool = pool
	return b
}

// WithParsePlacement selects whether Spider.Parse runs on the pool or
// inline. Defaults to OnPool.
func (b *Builder[T]) WithParsePlacement(p ParsePlacement) *Builder[T] {
	b.opts.ParsePlacement = p
	return b
}

// Crawler is a built, reusable configuration that can run any number of
// Spider[T] crawls via Crawl, all against the same Scheduler.
type Crawler[T any] struct {
	sched *scheduler.Scheduler
	opts  Options
}

// Build finalizes the Builder into a Crawler. No I/O occurs here.
func (b *Builder[T]) Build() *Crawler[T] {
	return &Crawler[T]{sched: b.sched, opts: b.opts}
}

// Crawl starts a single crawl of sp against the Crawler's Scheduler and
// returns its Driver. The crawl runs until the Spider's seeds and every
// request/response/parse chain they produce fully drains, or until ctx is
// cancelled or Driver.Stop is called. The Scheduler is untouched by
// cancellation or Stop: it belongs to the caller and may be handed to
// another Crawl afterward.
func (c *Crawler[T]) Crawl(ctx context.Context, sp spider.Spider[T]) *Driver[T] {
	pool := c.opts.Pool
	ownsPool := false
	if pool == nil {
		pool = workerpool.New(0)
		ownsPool = true
	}

	driverCtx, cancel := context.WithCancel(ctx)

	d := newDriver[T](driverCtx, cancel, sp, c.sched, pool, c.opts.Logger, c.opts.ParsePlacement)
	if ownsPool {
		go func() {
			<-d.ctx.Done()
			pool.Close()
		}()
	}
	return d
}
