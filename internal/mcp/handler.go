package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// --------------------------------------------------------------------------
// Parameter extraction helpers
// --------------------------------------------------------------------------

// positiveInt extracts an integer argument that must be at least 1. A
// missing argument yields defaultVal; pass 0 to make it required.
func positiveInt(request mcp.CallToolRequest, key string, defaultVal int) (int, error) {
	args := request.GetArguments()
	raw, ok := args[key]
	if !ok || raw == nil {
		if defaultVal == 0 {
			return 0, fmt.Errorf("missing required parameter %q", key)
		}
		return defaultVal, nil
	}
	var n int
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("parameter %q must be a whole number", key)
		}
		n = int(v)
	case int:
		n = v
	case string:
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, fmt.Errorf("parameter %q must be an integer", key)
		}
	default:
		return 0, fmt.Errorf("parameter %q must be an integer", key)
	}
	if n < 1 {
		return 0, fmt.Errorf("parameter %q must be at least 1", key)
	}
	return n, nil
}

// --------------------------------------------------------------------------
// Response builders
// --------------------------------------------------------------------------

// successJSON marshals data to JSON and returns it as a tool result.
func successJSON(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError returns a tool-level error result. Errors returned this way are
// visible to the LLM so it can self-correct; they do NOT terminate the MCP
// session.
func toolError(format string, args ...any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}
