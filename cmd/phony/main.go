// Package main is the entry point for the phony CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AndreyAkinshin/phony/internal/cli"
)

func main() {
	// Interrupting phony stops the running step and skips the rest of the plan.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.RunContext(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
