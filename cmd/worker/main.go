package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"votegala/internal/app/bootstrap"
)

// Worker process entrypoint: runs the stale-stage sweeper loop until
// interrupted.
func main() {
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("votegala worker bootstrap failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)
}
