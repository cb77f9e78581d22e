// Command browseruse acquires web content through tiered fallback: cheap
// API and script-data strategies first, full browser automation last.
//
// Usage:
//
//	browseruse images "red pandas" --count 5 --min-dimension 800
//	browseruse videos "go concurrency talk" --max-duration 20
//	browseruse download --type video --quality 720p <url>...
//	browseruse login --account work
//	browseruse mcp
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
