package ctxtools

import (
	"context"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/mark3labs/mcp-go/mcp"
)

// StorePriorityContentTool handles the store_priority_content MCP tool.
type StorePriorityContentTool struct {
	svc *contextstore.Service
}

// NewStorePriorityContentTool creates a StorePriorityContentTool.
func NewStorePriorityContentTool(svc *contextstore.Service) *StorePriorityContentTool {
	return &StorePriorityContentTool{svc: svc}
}

// Definition returns the MCP tool definition for store_priority_content.
func (t *StorePriorityContentTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpStorePriorityContent),
		mcp.WithDescription(
			"Store priority content. Priority content is never deleted and is shown at session start "+
				"when its id or description mentions the project.",
		),
		mcp.WithString("content_id", mcp.Required(), mcp.Description("Content id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to keep")),
		mcp.WithString("description", mcp.Description("Short description")),
	)
}

// Handle processes the store_priority_content tool call.
func (t *StorePriorityContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(req, "content_id")
	if err != nil {
		return errorResult(err), nil
	}
	content, err := requiredString(req, "content")
	if err != nil {
		return errorResult(err), nil
	}
	description, err := optionalString(req, "description")
	if err != nil {
		return errorResult(err), nil
	}

	msg, err := t.svc.StorePriorityContent(id, content, description)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// GetPriorityContentTool handles the get_priority_content MCP tool.
type GetPriorityContentTool struct {
	svc *contextstore.Service
}

// NewGetPriorityContentTool creates a GetPriorityContentTool.
func NewGetPriorityContentTool(svc *contextstore.Service) *GetPriorityContentTool {
	return &GetPriorityContentTool{svc: svc}
}

// Definition returns the MCP tool definition for get_priority_content.
func (t *GetPriorityContentTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpGetPriorityContent),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get priority content. Omit 'content_id' to list every entry."),
		mcp.WithString("content_id", mcp.Description("Optional content id")),
	)
}

// Handle processes the get_priority_content tool call.
func (t *GetPriorityContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := optionalString(req, "content_id")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(t.svc.GetPriorityContent(id)), nil
}
