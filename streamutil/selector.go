package streamutil

import "sync"

// Selector fans a dynamically growing set of sub-channels into one output
// channel. New sub-channels may be pushed at any time, including after the
// Selector has started draining others.
//
// Grounded on original_source/src/crawler.rs's use of select_all::SelectAll
// to fan item-substreams into the crawl's final output, and on the
// teacher's scheduler.go pattern of many goroutines writing into one
// shared channel gated by a sync.WaitGroup.
//
// Fairness is whatever interleaving the Go scheduler gives concurrently
// writing goroutines — accepted as a starvation-free (if not strictly
// round-robin) policy per spec.md §9 Open Question 5.
type Selector[T any] struct {
	out chan T

	mu       sync.Mutex
	open     int
	closing  bool
	didClose bool
}

// NewSelector creates a Selector whose output channel has the given
// buffer size (0 for unbuffered).
func NewSelector[T any](buf int) *Selector[T] {
	return &Selector[T]{out: make(chan T, buf)}
}

// Push adds a sub-channel to the fan-in set. Items received from ch are
// forwarded to Out() until ch closes.
func (s *Selector[T]) Push(ch <-chan T) {
	s.mu.Lock()
	s.open++
	s.mu.Unlock()

	go func() {
		for v := range ch {
			s.out <- v
		}
		s.mu.Lock()
		shouldClose := s.closing && s.open == 1 && !s.didClose
		s.open--
		if shouldClose {
			s.didClose = true
		}
		s.mu.Unlock()
		if shouldClose {
			close(s.out)
		}
	}()
}

// Out returns the fan-in output channel.
func (s *Selector[T]) Out() <-chan T {
	return s.out
}

// Close signals that no further Push calls will be made. Out() closes
// once every currently-pushed sub-channel has drained. Calling Close when
// no sub-channel is open closes Out() immediately.
func (s *Selector[T]) Close() {
	s.mu.Lock()
	s.closing = true
	shouldClose := s.open == 0 && !s.didClose
	if shouldClose {
		s.didClose = true
	}
	s.mu.Unlock()
	if shouldClose {
		close(s.out)
	}
}
