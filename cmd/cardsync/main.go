package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/cardsync/internal/client/cli"
	"github.com/iudanet/cardsync/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := cli.New(iocli.NewStdio(), os.Stderr, cli.BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	})
	code := c.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
