package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/netlens/netlens/internal/config"
	"github.com/netlens/netlens/pkg/metrics"
)

// Server manages the MCP server lifecycle: the stdio transport, the design
// loader with its cache and watcher, and the optional metrics endpoint.
type Server struct {
	config   *config.Config
	loader   *DesignLoader
	registry *metrics.Registry
	mcp      *server.MCPServer
}

// NewServer creates an MCP server with the given configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	registry := metrics.New()
	loader, err := NewDesignLoader(cfg.Discovery.Ignore, cfg.Server.CacheCapacity, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create design loader: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"netlens-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	AddTraceTool(mcpServer, loader)
	AddNetsTool(mcpServer, loader)
	AddSearchTool(mcpServer, loader)

	return &Server{
		config:   cfg,
		loader:   loader,
		registry: registry,
		mcp:      mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if port := s.config.Server.MetricsPort; port > 0 {
		s.registry.ServeAsync(port)
		log.Printf("metrics endpoint on :%d/metrics", port)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	sessionID := uuid.NewString()
	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting MCP server on stdio (session %s)...", sessionID)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *Server) Close() error {
	if s.loader != nil {
		return s.loader.Close()
	}
	return nil
}
