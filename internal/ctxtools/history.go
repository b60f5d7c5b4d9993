package ctxtools

import (
	"context"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetSessionHistoryTool handles the get_session_history MCP tool.
type GetSessionHistoryTool struct {
	svc *contextstore.Service
}

// NewGetSessionHistoryTool creates a GetSessionHistoryTool.
func NewGetSessionHistoryTool(svc *contextstore.Service) *GetSessionHistoryTool {
	return &GetSessionHistoryTool{svc: svc}
}

// Definition returns the MCP tool definition for get_session_history.
func (t *GetSessionHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpGetSessionHistory),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get the global session history across all projects, oldest first."),
		mcp.WithNumber("limit",
			mcp.Description("Number of most recent sessions to show (default: 20)"),
			mcp.DefaultNumber(contextstore.DefaultHistoryLimit),
		),
	)
}

// Handle processes the get_session_history tool call.
func (t *GetSessionHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := optionalInt(req, "limit", contextstore.DefaultHistoryLimit)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(t.svc.GetSessionHistory(limit)), nil
}

// GetProjectSessionsTool handles the get_project_sessions MCP tool.
type GetProjectSessionsTool struct {
	svc *contextstore.Service
}

// NewGetProjectSessionsTool creates a GetProjectSessionsTool.
func NewGetProjectSessionsTool(svc *contextstore.Service) *GetProjectSessionsTool {
	return &GetProjectSessionsTool{svc: svc}
}

// Definition returns the MCP tool definition for get_project_sessions.
func (t *GetProjectSessionsTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpGetProjectSessions),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get the recent sessions of a project (default: the current project)."),
		mcp.WithString("project_id", mcp.Description("Optional project id")),
	)
}

// Handle processes the get_project_sessions tool call.
func (t *GetProjectSessionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := optionalString(req, "project_id")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(t.svc.GetProjectSessions(id)), nil
}
