package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/kaina/internal/config"
	"github.com/felixgeelhaar/kaina/internal/daemon"
	mcpserver "github.com/felixgeelhaar/kaina/internal/mcp"
)

// cmdMCP serves the drill tools over MCP stdio for editor agents
func cmdMCP() error {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svcs, err := daemon.BuildServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	defer svcs.Close()

	mcpSrv := mcpserver.NewServer(mcpserver.Config{
		Drill:   svcs.Drill,
		Version: Version,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return mcpSrv.ServeStdio(ctx)
}
