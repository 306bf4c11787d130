package streamutil

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSelector_FansInMultipleChannels(t *testing.T) {
	sel := NewSelector[int](0)

	a := make(chan int)
	b := make(chan int)
	sel.Push(a)
	sel.Push(b)

	go func() {
		a <- 1
		a <- 2
		close(a)
	}()
	go func() {
		b <- 3
		close(b)
	}()

	var got []int
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case v := <-sel.Out():
			got = append(got, v)
		case <-timeout:
			t.Fatal("timed out collecting fanned-in values")
		}
	}
	sort.Ints(got)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSelector_ClosesOutputAfterCloseAndAllSubchannelsDrain(t *testing.T) {
	sel := NewSelector[int](0)
	a := make(chan int)
	sel.Push(a)
	sel.Close()

	close(a)

	select {
	case _, ok := <-sel.Out():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("output never closed")
	}
}

func TestSelector_CloseWithNoSubchannelsClosesImmediately(t *testing.T) {
	sel := NewSelector[int](0)
	sel.Close()

	select {
	case _, ok := <-sel.Out():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output never closed")
	}
}
