// Package crawlcore is the root of an asynchronous, bounded, deduplicating
// web-crawling engine: a fixed-point driver (package crawl) composes a
// user-supplied spider (package spider) with a concurrency-capped request
// scheduler (package scheduler) and a request-fingerprint filter (package
// rfp), surfacing the crawl as a channel of typed items.
//
// See SPEC_FULL.md for the full component breakdown.
package crawlcore

// Logger is the structured key-value-ish sink every component that logs
// (scheduler, rfp, streamutil, crawl) accepts. It is intentionally tiny so
// callers can adapt any logging library — including the ones the teacher's
// dependency graph never actually used (zap, zerolog) — without crawlcore
// depending on any of them itself. The default, wired in by crawl.Builder
// when none is supplied, is logging.Std, which wraps the standard
// library's log package — the only logging the teacher repo ever does.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}
