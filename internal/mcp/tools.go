package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/planetexplorer/planetexplorer/internal/handoff"
	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/swapi"
)

// registerTools registers all planet MCP tools on the given server.
func (s *MCPServer) registerTools(srv *server.MCPServer) {
	srv.AddTool(
		mcp.NewTool("planets_list",
			mcp.WithDescription(
				"List one page of Star Wars planets. Each planet has an id, name and "+
					"nullable climate, orbitalPeriod (days) and gravity. Unknown upstream "+
					"values are returned as null. Pages start at 1.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("page",
				mcp.Description("Page number to fetch (default 1)"),
				mcp.Min(1),
			),
		),
		s.handleListPlanets,
	)

	srv.AddTool(
		mcp.NewTool("planets_get",
			mcp.WithDescription("Get a single planet by its numeric id."),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Planet id, as returned by planets_list"),
				mcp.Min(1),
			),
		),
		s.handleGetPlanet,
	)
}

type planetEntry struct {
	model.Planet
	Handoff string `json:"handoff"`
}

type planetPage struct {
	Page    int           `json:"page"`
	Count   int           `json:"count"`
	Planets []planetEntry `json:"planets"`
}

func (s *MCPServer) handleListPlanets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := positiveInt(request, "page", 1)
	if err != nil {
		return toolError("%v", err)
	}

	planets, err := s.list.Execute(ctx, page).Get()
	if err != nil {
		s.logger.Warn("planets_list failed", "page", page, "error", err)
		if errors.Is(err, swapi.ErrNotFound) {
			return toolError("page %d does not exist", page)
		}
		return toolError("failed to load planets: %v", err)
	}

	out := planetPage{Page: page, Count: len(planets), Planets: make([]planetEntry, 0, len(planets))}
	for _, p := range planets {
		payload, err := handoff.Encode(p)
		if err != nil {
			return nil, err
		}
		out.Planets = append(out.Planets, planetEntry{Planet: p, Handoff: payload})
	}
	return successJSON(out)
}

func (s *MCPServer) handleGetPlanet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := positiveInt(request, "id", 0)
	if err != nil {
		return toolError("%v", err)
	}

	planet, err := s.get.Execute(ctx, id).Get()
	if err != nil {
		s.logger.Warn("planets_get failed", "id", id, "error", err)
		if errors.Is(err, swapi.ErrNotFound) {
			return toolError("planet %d not found", id)
		}
		return toolError("failed to load planet %d: %v", id, err)
	}
	return successJSON(planet)
}
