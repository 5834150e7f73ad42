package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kailas-cloud/patentcompass/internal/cli"
	"github.com/kailas-cloud/patentcompass/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := cli.Run(ctx, os.Args, version.String(), os.Stdout); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, "patentctl:", err)
		os.Exit(1)
	}
}
