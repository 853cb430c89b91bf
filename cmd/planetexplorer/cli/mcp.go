package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pmcp "github.com/planetexplorer/planetexplorer/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server that exposes planet lookups
as tools for AI agents. Supports stdio (default) and HTTP transports.

In stdio mode, the MCP server communicates over stdin/stdout using JSON-RPC,
suitable for direct integration with desktop MCP clients.

In HTTP mode, the server listens on the specified port using the Streamable
HTTP transport.`,
		Example: `  planetexplorer mcp                              # stdio mode
  planetexplorer mcp --transport http --port 3001  # HTTP mode`,
		RunE: runMCP,
	}

	cmd.Flags().String("transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().Int("port", 3001, "HTTP port (only used with --transport http)")

	return cmd
}

var mcpBindings = map[string]string{
	"mcp.transport": "transport",
	"mcp.port":      "port",
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, mcpBindings)
	if err != nil {
		return err
	}

	mcpSrv := pmcp.NewMCPServer(a.getPlanets, a.getPlanet, versionString(), a.logger)

	switch a.cfg.MCP.Transport {
	case "stdio":
		return mcpSrv.ServeStdio()
	case "http":
		return mcpSrv.ServeHTTP(fmt.Sprintf(":%d", a.cfg.MCP.Port))
	default:
		return fmt.Errorf("unsupported transport %q; use 'stdio' or 'http'", a.cfg.MCP.Transport)
	}
}
