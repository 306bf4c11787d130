package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmit_RunsFnAndReturnsResult(t *testing.T) {
	p := New(2)
	defer p.Close()

	out := Submit(p, func() int { return 42 })
	select {
	case v := <-out:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func TestNew_BoundsConcurrency(t *testing.T) {
	p := New(2)
	defer p.Close()

	var inFlight, maxInFlight atomic.Int32
	release := make(chan struct{})

	for i := 0; i < 5; i++ {
		Submit(p, func() int {
			n := inFlight.Add(1)
			for {
				old := maxInFlight.Load()
				if n <= old || maxInFlight.CompareAndSwap(old, n) {
					break
				}
			}
			<-release
			inFlight.Add(-1)
			return 0
		})
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	time.Sleep(100 * time.Millisecond)

	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}

func TestClose_WaitsForInFlightWork(t *testing.T) {
	p := New(1)
	done := make(chan struct{})
	Submit(p, func() int {
		time.Sleep(50 * time.Millisecond)
		close(done)
		return 0
	})
	p.Close()

	select {
	case <-done:
	default:
		t.Fatal("Close returned before submitted work finished")
	}
}
