package rfp

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spider-crawler/crawlcore/digest"
	"github.com/spider-crawler/crawlcore/request"
)

type nopLogger struct{ n int }

func (l *nopLogger) Infof(format string, args ...any) { l.n++ }

func mustReq(t *testing.T, raw string) *request.Request {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return request.New(request.MethodGet, u)
}

func collect(t *testing.T, ch <-chan *request.Request, n int) []*request.Request {
	t.Helper()
	var out []*request.Request
	for i := 0; i < n; i++ {
		select {
		case r := <-ch:
			out = append(out, r)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for request %d/%d", i+1, n)
		}
	}
	return out
}

func TestUnique_AdmitsFirstDropsDuplicates(t *testing.T) {
	log := &nopLogger{}
	f := New(log)

	a := mustReq(t, "http://example.com/a")
	b := mustReq(t, "http://example.com/b")

	in := make(chan Pair)
	out := f.Unique(in)

	go func() {
		defer close(in)
		in <- Pair{Digest: digest.Sum(a), Request: a}
		in <- Pair{Digest: digest.Sum(a), Request: a} // duplicate
		in <- Pair{Digest: digest.Sum(b), Request: b}
	}()

	got := collect(t, out, 2)
	assert.ElementsMatch(t, []*request.Request{a, b}, got)
	assert.Equal(t, 1, log.n, "exactly one duplicate logged")
	assert.Equal(t, 2, f.Seen())
}

func TestUnique_ClosesOutputWhenInputCloses(t *testing.T) {
	f := New(nil)
	in := make(chan Pair)
	out := f.Unique(in)
	close(in)

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output channel never closed")
	}
}
