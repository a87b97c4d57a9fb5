package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/reposearch-cli/internal/core/services"
)

// Port range scanned by --http when no --port is given.
const (
	mcpHTTPHost      = "localhost"
	mcpHTTPPortStart = 8080
	mcpHTTPPortEnd   = 8180
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, or --http to pick the first free
port from 8080. HTTP mode enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

The server exposes the search_repositories tool and the resources
reposearch://config and reposearch://search/{query}.

Examples:
  # Stdio mode (default, for Claude Desktop)
  reposearch mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  reposearch mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "reposearch": {
        "command": "/path/to/reposearch",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve over HTTP on the first free port from 8080")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	live := liveSearchService(cmd.Context())
	ports := &mcp.Ports{
		Search: live,
		Config: live.Config,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if useHTTP && port == 0 {
		port, err = services.FindAvailablePort(mcpHTTPHost, mcpHTTPPortStart, mcpHTTPPortEnd)
		if err != nil {
			return fmt.Errorf("finding free port: %w", err)
		}
	}

	if port > 0 {
		addr := net.JoinHostPort("", strconv.Itoa(port))
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s:%d\n", mcpHTTPHost, port)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
