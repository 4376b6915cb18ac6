package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/dineflow/internal/app/dineflow"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := dineflow.Execute(ctx, os.Args[1:], dineflow.CommandOptions{})
	stop()
	os.Exit(code)
}
