package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognicore/quill/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd().ExecuteContext(ctx); err != nil {
		logger.GetDefault().Error("quill failed", "error", err)
		stop()
		os.Exit(1)
	}
}
