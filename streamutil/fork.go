package streamutil

// Prong is one output branch of a Fork: every item sharing a route
// arrives on the same Prong, in the order the source produced them.
//
// Grounded on original_source/src/fork.rs's Prong/Shared types. That Rust
// version threads errors through Fork generically; in this engine, Fork
// is always composed immediately downstream of TerminateOnError (spec.md
// §4.7 step 2a→2b), so the stream Fork ever sees is already infallible —
// Fork therefore operates on plain channels rather than Result channels.
type Prong[T any, R comparable] struct {
	Route R
	q     *unbounded[T]
}

// C returns the Prong's item channel, closed once the source closes (or,
// for every Prong spawned before it, once Fork's input channel closes).
// Call C at most once per Prong — it is not safe for multiple goroutines
// to each drain the same Prong, exactly as a plain Go channel isn't meant
// to be drained by a single logical consumer from multiple places.
func (p *Prong[T, R]) C() <-chan T {
	return p.q.out()
}

// Fork splits in into disjoint sub-streams keyed by router(item). The
// first item observed for a given route spawns a fresh Prong delivered on
// the returned channel; every subsequent item sharing that route arrives
// on the same Prong. When in closes, every existing Prong's channel (and
// the returned outer channel) closes too.
//
// Per-route queues are unbounded (see unbounded.go) so that a Prong the
// consumer hasn't gotten around to draining yet never blocks dispatch of
// items routed to a different, actively-drained Prong — the Go rendering
// of spec.md §4.2's starvation guard.
func Fork[T any, R comparable](in <-chan T, router func(T) R) <-chan *Prong[T, R] {
	outerQ := newUnbounded[*Prong[T, R]]()
	go func() {
		prongs := make(map[R]*Prong[T, R])
		defer func() {
			for _, p := range prongs {
				p.q.close()
			}
			outerQ.close()
		}()

		for item := range in {
			route := router(item)
			p, ok := prongs[route]
			if !ok {
				p = &Prong[T, R]{Route: route, q: newUnbounded[T]()}
				prongs[route] = p
				outerQ.push(p)
			}
			p.q.push(item)
		}
	}()
	return outerQ.out()
}
