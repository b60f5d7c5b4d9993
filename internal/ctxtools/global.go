package ctxtools

import (
	"context"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/mark3labs/mcp-go/mcp"
)

// StoreGlobalTool handles the store_global MCP tool.
type StoreGlobalTool struct {
	svc *contextstore.Service
}

// NewStoreGlobalTool creates a StoreGlobalTool.
func NewStoreGlobalTool(svc *contextstore.Service) *StoreGlobalTool {
	return &StoreGlobalTool{svc: svc}
}

// Definition returns the MCP tool definition for store_global.
func (t *StoreGlobalTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpStoreGlobal),
		mcp.WithDescription("Store in the global cache (available everywhere, from every project)."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Key name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to store")),
	)
}

// Handle processes the store_global tool call.
func (t *StoreGlobalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requiredString(req, "key")
	if err != nil {
		return errorResult(err), nil
	}
	value, err := requiredString(req, "value")
	if err != nil {
		return errorResult(err), nil
	}

	msg, err := t.svc.StoreGlobal(key, value)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// GetGlobalTool handles the get_global MCP tool.
type GetGlobalTool struct {
	svc *contextstore.Service
}

// NewGetGlobalTool creates a GetGlobalTool.
func NewGetGlobalTool(svc *contextstore.Service) *GetGlobalTool {
	return &GetGlobalTool{svc: svc}
}

// Definition returns the MCP tool definition for get_global.
func (t *GetGlobalTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpGetGlobal),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get from the global cache. Omit 'key' to list every global key."),
		mcp.WithString("key", mcp.Description("Optional key to retrieve")),
	)
}

// Handle processes the get_global tool call.
func (t *GetGlobalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := optionalString(req, "key")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(t.svc.GetGlobal(key)), nil
}
