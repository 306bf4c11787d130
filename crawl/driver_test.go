package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spider-crawler/crawlcore/crawl"
	"github.com/spider-crawler/crawlcore/examples/linkspider"
	"github.com/spider-crawler/crawlcore/executor"
	"github.com/spider-crawler/crawlcore/scheduler"
	"github.com/spider-crawler/crawlcore/testutil"
)

// TestCrawl_DeduplicatesSharedLinks covers S1: two pages both link to /c,
// which must be fetched (and yielded) exactly once.
func TestCrawl_DeduplicatesSharedLinks(t *testing.T) {
	srv := testutil.New()
	defer srv.Close()

	srv.AddPage("/a", testutil.LinkPage("A", "/c"))
	srv.AddPage("/b", testutil.LinkPage("B", "/c"))
	srv.AddPage("/c", testutil.LinkPage("C"))

	httpExec := executor.NewHTTP(executor.DefaultHTTPOptions())
	defer httpExec.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sched := scheduler.New(ctx, 4, httpExec, nil)
	crawler := crawl.NewBuilder[linkspider.Page](sched).Build()

	sp := linkspider.New(srv.URL()+"/a", srv.URL()+"/b")
	driver := crawler.Crawl(ctx, sp)

	var pages []linkspider.Page
	for p := range driver.Items() {
		pages = append(pages, p)
	}

	assert.Len(t, pages, 3, "a, b, and c each yielded exactly once")
	assert.Equal(t, 1, srv.Hits("/c"), "c fetched exactly once despite two inbound links")
}

// TestCrawl_ContinuesPastTransportErrors covers S4: a failing page must
// not abort the crawl of its siblings.
func TestCrawl_ContinuesPastTransportErrors(t *testing.T) {
	srv := testutil.New()
	defer srv.Close()

	srv.AddPage("/a", testutil.LinkPage("A", "/broken", "/b"))
	srv.SetError("/broken", 500)
	srv.AddPage("/b", testutil.LinkPage("B"))

	httpExec := executor.NewHTTP(executor.DefaultHTTPOptions())
	defer httpExec.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sched := scheduler.New(ctx, 4, httpExec, nil)
	crawler := crawl.NewBuilder[linkspider.Page](sched).Build()

	driver := crawler.Crawl(ctx, linkspider.New(srv.URL()+"/a"))

	var urls []string
	for p := range driver.Items() {
		urls = append(urls, p.URL)
	}

	assert.Len(t, urls, 3, "a, broken (500, still a valid response), and b all yield")
}

// TestCrawl_ItemsChannelClosesOnCompletion checks the crawl's termination
// condition: once every request drains and no parse is outstanding,
// Items() must close on its own.
func TestCrawl_ItemsChannelClosesOnCompletion(t *testing.T) {
	srv := testutil.New()
	defer srv.Close()
	srv.AddPage("/only", testutil.LinkPage("Only"))

	httpExec := executor.NewHTTP(executor.DefaultHTTPOptions())
	defer httpExec.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sched := scheduler.New(ctx, 4, httpExec, nil)
	crawler := crawl.NewBuilder[linkspider.Page](sched).Build()

	driver := crawler.Crawl(ctx, linkspider.New(srv.URL()+"/only"))

	select {
	case p, ok := <-driver.Items():
		assert.True(t, ok)
		assert.Equal(t, srv.URL()+"/only", p.URL)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the single item")
	}

	select {
	case _, ok := <-driver.Items():
		assert.False(t, ok, "Items() must close once the crawl drains")
	case <-time.After(2 * time.Second):
		t.Fatal("Items() never closed")
	}
}
