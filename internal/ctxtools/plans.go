package ctxtools

import (
	"context"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/mark3labs/mcp-go/mcp"
)

// CachePlanTool handles the cache_plan MCP tool.
type CachePlanTool struct {
	svc *contextstore.Service
}

// NewCachePlanTool creates a CachePlanTool.
func NewCachePlanTool(svc *contextstore.Service) *CachePlanTool {
	return &CachePlanTool{svc: svc}
}

// Definition returns the MCP tool definition for cache_plan.
func (t *CachePlanTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpCachePlan),
		mcp.WithDescription("Cache a development plan by name. A plan with the same name is replaced."),
		mcp.WithString("plan_name", mcp.Required(), mcp.Description("Plan name")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full plan text")),
	)
}

// Handle processes the cache_plan tool call.
func (t *CachePlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(req, "plan_name")
	if err != nil {
		return errorResult(err), nil
	}
	content, err := requiredString(req, "content")
	if err != nil {
		return errorResult(err), nil
	}

	msg, err := t.svc.CachePlan(name, content)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// GetCachedPlanTool handles the get_cached_plan MCP tool.
type GetCachedPlanTool struct {
	svc *contextstore.Service
}

// NewGetCachedPlanTool creates a GetCachedPlanTool.
func NewGetCachedPlanTool(svc *contextstore.Service) *GetCachedPlanTool {
	return &GetCachedPlanTool{svc: svc}
}

// Definition returns the MCP tool definition for get_cached_plan.
func (t *GetCachedPlanTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpGetCachedPlan),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get a cached plan."),
		mcp.WithString("plan_name", mcp.Required(), mcp.Description("Plan name")),
	)
}

// Handle processes the get_cached_plan tool call.
func (t *GetCachedPlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(req, "plan_name")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(t.svc.GetCachedPlan(name)), nil
}

// ListCachedPlansTool handles the list_cached_plans MCP tool.
type ListCachedPlansTool struct {
	svc *contextstore.Service
}

// NewListCachedPlansTool creates a ListCachedPlansTool.
func NewListCachedPlansTool(svc *contextstore.Service) *ListCachedPlansTool {
	return &ListCachedPlansTool{svc: svc}
}

// Definition returns the MCP tool definition for list_cached_plans.
func (t *ListCachedPlansTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpListCachedPlans),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("List all cached plans with their sizes."),
	)
}

// Handle processes the list_cached_plans tool call.
func (t *ListCachedPlansTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(t.svc.ListCachedPlans()), nil
}
