// Package rfp implements the request fingerprint filter: a monotone-growing
// seen-set of digest.Digest values that admits each request at most once
// across the lifetime of a crawl.
//
// Grounded on original_source/src/unique.rs (contains-then-insert under a
// lock, logging and dropping duplicates) and on the mutex-guarded-map shape
// of the teacher's internal/frontier/frontier.go visited/queued maps —
// reused here for the RFP's seen-set specifically, not for frontier
// traversal semantics (depth/priority/retry), which spec.md's Scheduler
// doesn't have.
package rfp

import (
	"sync"

	"github.com/spider-crawler/crawlcore/digest"
	"github.com/spider-crawler/crawlcore/request"
)

// Logger is the minimal logging capability Filter needs.
type Logger interface {
	Infof(format string, args ...any)
}

// Pair couples a pre-computed digest with the request it was computed
// from — the element type Unique consumes, since digest computation
// happens upstream (potentially on a worker pool) of the uniqueness check.
type Pair struct {
	Digest  digest.Digest
	Request *request.Request
}

// Filter holds the seen-set. The zero value is not usable; use New.
type Filter struct {
	log Logger

	mu   sync.Mutex
	seen map[digest.Digest]struct{}
}

// New creates an empty Filter.
func New(log Logger) *Filter {
	return &Filter{
		log:  log,
		seen: make(map[digest.Digest]struct{}),
	}
}

// Unique reads (digest, request) pairs from in and emits each request's
// Request on the returned channel exactly once: the first pair with a
// given digest is admitted, every later pair sharing that digest is
// logged at info and dropped. The digest contains-check and insert occur
// atomically under Filter's mutex.
//
// spec.md §4.4/§5 describes the seen-set lock as acquired
// non-blockingly with cooperative retry on contention; Go's sync.Mutex has
// no such primitive, and the guarded section here is an O(1) map
// operation that never blocks on I/O, so a plain Lock is an observably
// equivalent rendering (see DESIGN.md, "Deliberate simplifications").
func (f *Filter) Unique(in <-chan Pair) <-chan *request.Request {
	out := make(chan *request.Request)
	go func() {
		defer close(out)
		for pair := range in {
			if f.admit(pair.Digest) {
				out <- pair.Request
			} else if f.log != nil {
				f.log.Infof("rfp: dropping duplicate request %s", pair.Request.URL)
			}
		}
	}()
	return out
}

// admit reports whether d is newly seen, recording it as seen when it is.
func (f *Filter) admit(d digest.Digest) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, seen := f.seen[d]; seen {
		return false
	}
	f.seen[d] = struct{}{}
	return true
}

// Seen reports how many distinct digests the filter has admitted so far.
func (f *Filter) Seen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
