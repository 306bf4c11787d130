// Package main is a demo CLI wiring crawl.Builder, executor.HTTP, and
// examples/linkspider into a runnable crawl.
//
// Grounded on the teacher's cmd/spider/main.go: signal-triggered
// cancellation, a periodic stats ticker, and a final summary line, all
// carried over even though the underlying scheduler/result types
// changed completely.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spider-crawler/crawlcore/crawl"
	"github.com/spider-crawler/crawlcore/examples/linkspider"
	"github.com/spider-crawler/crawlcore/executor"
	"github.com/spider-crawler/crawlcore/logging"
	"github.com/spider-crawler/crawlcore/scheduler"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: spider <url>")
		fmt.Println("Example: spider https://example.com")
		os.Exit(1)
	}
	seedURL := os.Args[1]

	logger := logging.NewStd(log.Default())

	httpExec := executor.NewHTTP(executor.DefaultHTTPOptions())
	defer httpExec.Close()

	rateLimited := executor.NewRateLimited(httpExec, 5, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, 3, rateLimited, logger)

	builder := crawl.NewBuilder[linkspider.Page](sched).
		WithLogger(logger)
	crawler := builder.Build()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nreceived interrupt signal, stopping...")
		cancel()
	}()

	sp := linkspider.New(seedURL)
	driver := crawler.Crawl(ctx, sp)

	var pagesSeen atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for page := range driver.Items() {
			pagesSeen.Add(1)
			fmt.Printf("[%d] %s - %q (%d links)\n", pagesSeen.Load(), page.URL, page.Title, len(page.Links))
		}
	}()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	start := time.Now()

loop:
	for {
		select {
		case <-done:
			break loop
		case <-ticker.C:
			fmt.Printf("\n[stats] pages: %d | elapsed: %v\n", pagesSeen.Load(), time.Since(start).Round(time.Second))
		}
	}

	fmt.Println("\n========== crawl complete ==========")
	fmt.Printf("total pages: %d\n", pagesSeen.Load())
	fmt.Printf("total time: %v\n", time.Since(start).Round(time.Millisecond))
}
