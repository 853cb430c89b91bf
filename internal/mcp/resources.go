package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const planetURIPrefix = "planets://planet/"

// registerResources adds MCP resource definitions to the server. Resources
// provide read-only data that LLM clients can load into their context.
func (s *MCPServer) registerResources(srv *server.MCPServer) {

	// -------------------------------------------------------------------
	// planets://planet/{id}: a single planet (template)
	// -------------------------------------------------------------------
	srv.AddResourceTemplate(
		mcp.NewResourceTemplate(
			planetURIPrefix+"{id}",
			"Planet",
			mcp.WithTemplateDescription(
				"A single planet with its climate, orbital period and gravity.",
			),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handlePlanetResource,
	)
}

// handlePlanetResource returns one planet as JSON.
func (s *MCPServer) handlePlanetResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	// Extract the id from URI: "planets://planet/{id}"
	uri := request.Params.URI
	raw := strings.TrimPrefix(uri, planetURIPrefix)
	id, err := strconv.Atoi(raw)
	if raw == uri || err != nil || id < 1 {
		return nil, fmt.Errorf("invalid planet URI %q: expected %s{id}", uri, planetURIPrefix)
	}

	planet, err := s.get.Execute(ctx, id).Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load planet %d: %w", id, err)
	}

	b, err := json.MarshalIndent(planet, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal planet: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
