package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/result"
)

// PlanetsLister loads one page of planets.
type PlanetsLister interface {
	Execute(ctx context.Context, page int) result.Result[[]model.Planet]
}

// PlanetGetter loads a single planet.
type PlanetGetter interface {
	Execute(ctx context.Context, id int) result.Result[model.Planet]
}

// MCPServer wraps the mcp-go server with planet tool and resource
// registrations so AI agents can browse planets.
type MCPServer struct {
	list    PlanetsLister
	get     PlanetGetter
	logger  *slog.Logger
	server  *server.MCPServer
	version string
}

// NewMCPServer creates an MCPServer pre-loaded with all planet tools and
// resources. The returned server is ready to serve over stdio or HTTP.
func NewMCPServer(list PlanetsLister, get PlanetGetter, version string, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &MCPServer{
		list:    list,
		get:     get,
		logger:  logger,
		version: version,
	}

	mcpServer := server.NewMCPServer(
		"Planet Explorer",
		version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go MCPServer instance. Useful for
// advanced configuration or testing.
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// ServeStdio starts the MCP server in stdio mode, for clients that launch
// the server as a subprocess.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// ServeHTTP starts the MCP server in Streamable HTTP mode, listening on
// the given address (e.g. ":3001"). This is suitable for remote MCP clients.
func (s *MCPServer) ServeHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.server)
	s.logger.Info("MCP HTTP server starting", "addr", addr)
	return httpServer.Start(addr)
}

// readOnlyAnnotation marks a tool as free of side effects.
func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint:   boolPtr(true),
		OpenWorldHint:  boolPtr(true),
		IdempotentHint: boolPtr(true),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
