package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/openenc/internal/debug"
	"github.com/standardbeagle/openenc/internal/mcp"
)

func mcpCommand(c *cli.Context) error {
	// stdio belongs to the protocol from here on
	debug.SetMCPMode(true)

	mcpServer, err := mcp.NewServer(configFrom(c))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer func() {
		_ = mcpServer.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- mcpServer.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		debug.LogMCP("Received signal %v, shutting down\n", sig)
		cancel()

		shutdownTimer := time.NewTimer(2 * time.Second)
		defer shutdownTimer.Stop()

		select {
		case err := <-errChan:
			return err
		case <-shutdownTimer.C:
			// the stdio transport only notices cancellation on its next read
			os.Stdin.Close()
			return nil
		}
	}
}
