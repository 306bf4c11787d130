package streamutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingLogger struct{ n int }

func (l *countingLogger) Errorf(format string, args ...any) { l.n++ }

func TestTerminateOnError_ForwardsValuesUntilError(t *testing.T) {
	in := make(chan Result[int])
	log := &countingLogger{}
	out := TerminateOnError(in, log)

	go func() {
		in <- Ok(1)
		in <- Ok(2)
		in <- Error[int](errors.New("boom"))
		in <- Ok(3) // must never be forwarded
		close(in)
	}()

	var got []int
	for v := range out {
		got = append(got, v)
	}

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 1, log.n)
}

func TestTerminateOnError_ClosesCleanlyOnSourceClose(t *testing.T) {
	in := make(chan Result[int])
	out := TerminateOnError(in, nil)
	close(in)

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output never closed")
	}
}
