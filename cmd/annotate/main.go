package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/example/annotate/internal/cli"
	"github.com/example/annotate/internal/wire"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.New(wire.StdStreams()).Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
