package ctxtools

import (
	"context"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/mark3labs/mcp-go/mcp"
)

// StoreProjectContextTool handles the store_project_context MCP tool.
type StoreProjectContextTool struct {
	svc *contextstore.Service
}

// NewStoreProjectContextTool creates a StoreProjectContextTool.
func NewStoreProjectContextTool(svc *contextstore.Service) *StoreProjectContextTool {
	return &StoreProjectContextTool{svc: svc}
}

// Definition returns the MCP tool definition for store_project_context.
func (t *StoreProjectContextTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpStoreProjectContext),
		mcp.WithDescription(
			"Store context for the current project. Overwrites an existing key. "+
				"Use it for build commands, conventions, decisions, anything the next session should know.",
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Key name"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Value to store"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Importance of this note (default: 5)"),
			mcp.DefaultNumber(contextstore.DefaultContextPriority),
		),
	)
}

// Handle processes the store_project_context tool call.
func (t *StoreProjectContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requiredString(req, "key")
	if err != nil {
		return errorResult(err), nil
	}
	value, err := requiredString(req, "value")
	if err != nil {
		return errorResult(err), nil
	}
	priority, err := optionalInt(req, "priority", contextstore.DefaultContextPriority)
	if err != nil {
		return errorResult(err), nil
	}

	msg, err := t.svc.StoreProjectContext(key, value, priority)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// GetProjectContextTool handles the get_project_context MCP tool.
type GetProjectContextTool struct {
	svc *contextstore.Service
}

// NewGetProjectContextTool creates a GetProjectContextTool.
func NewGetProjectContextTool(svc *contextstore.Service) *GetProjectContextTool {
	return &GetProjectContextTool{svc: svc}
}

// Definition returns the MCP tool definition for get_project_context.
func (t *GetProjectContextTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpGetProjectContext),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get context from the current project. Omit 'key' to list every stored key."),
		mcp.WithString("key",
			mcp.Description("Optional key to retrieve"),
		),
	)
}

// Handle processes the get_project_context tool call.
func (t *GetProjectContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := optionalString(req, "key")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(t.svc.GetProjectContext(key)), nil
}

// ListAllProjectsTool handles the list_all_projects MCP tool.
type ListAllProjectsTool struct {
	svc *contextstore.Service
}

// NewListAllProjectsTool creates a ListAllProjectsTool.
func NewListAllProjectsTool(svc *contextstore.Service) *ListAllProjectsTool {
	return &ListAllProjectsTool{svc: svc}
}

// Definition returns the MCP tool definition for list_all_projects.
func (t *ListAllProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpListAllProjects),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("List all known projects with their ids, paths and session counts."),
	)
}

// Handle processes the list_all_projects tool call.
func (t *ListAllProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(t.svc.ListAllProjects()), nil
}

// GetOtherProjectContextTool handles the get_other_project_context MCP tool.
type GetOtherProjectContextTool struct {
	svc *contextstore.Service
}

// NewGetOtherProjectContextTool creates a GetOtherProjectContextTool.
func NewGetOtherProjectContextTool(svc *contextstore.Service) *GetOtherProjectContextTool {
	return &GetOtherProjectContextTool{svc: svc}
}

// Definition returns the MCP tool definition for get_other_project_context.
func (t *GetOtherProjectContextTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpGetOtherProjectContext),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get context from another project. Find project ids with list_all_projects."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("12-character project id"),
		),
		mcp.WithString("key",
			mcp.Description("Optional key to retrieve"),
		),
	)
}

// Handle processes the get_other_project_context tool call.
func (t *GetOtherProjectContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := requiredString(req, "project_id")
	if err != nil {
		return errorResult(err), nil
	}
	key, err := optionalString(req, "key")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(t.svc.GetOtherProjectContext(projectID, key)), nil
}
