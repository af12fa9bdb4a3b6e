package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"castgraph/backend/internal/console"
	"castgraph/backend/internal/editor"
	"castgraph/backend/internal/naming"
	"castgraph/backend/internal/roster"
	"castgraph/backend/pkg/config"
	"castgraph/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Logs go to stderr so they don't interleave with the prompt on stdout.
	if err := logger.Init("production"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := naming.NewClient(cfg.NamingServerURL, cfg.NamingTimeout)
	ed := editor.New(roster.NewStore(), client)

	fmt.Fprintln(os.Stdout, "castgraph editor, type help for commands")
	if err := console.New(ed, os.Stdout).Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Error("Console stopped", zap.Error(err))
		os.Exit(1)
	}
}
