package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netlens/netlens/internal/config"
	"github.com/netlens/netlens/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for schematic connectivity queries",
	Long: `Start the Model Context Protocol (MCP) server that lets AI coding
assistants query schematic designs.

The MCP server:
- Decodes Altium and Cadence designs on demand, caching parsed models
- Provides XNET traversal via the netlens_trace tool
- Provides net listings and component search via netlens_nets and netlens_search
- Communicates via stdio (standard MCP transport)

Example:
  netlens mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(os.Stderr, "NetLens MCP Server\n")
	fmt.Fprintf(os.Stderr, "Design cache capacity: %d\n\n", cfg.Server.CacheCapacity)

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
