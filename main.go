package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kilianp07/teambalance/cmd"
	coremon "github.com/kilianp07/teambalance/core/monitoring"
)

func main() {
	defer coremon.Recover()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
