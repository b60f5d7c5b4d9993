package ctxtools

import (
	"context"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Operation names one registered tool.
type Operation string

// The complete set of operations, in manifest order.
const (
	OpStoreProjectContext    Operation = "store_project_context"
	OpGetProjectContext      Operation = "get_project_context"
	OpListAllProjects        Operation = "list_all_projects"
	OpGetOtherProjectContext Operation = "get_other_project_context"
	OpStoreGlobal            Operation = "store_global"
	OpGetGlobal              Operation = "get_global"
	OpCachePlan              Operation = "cache_plan"
	OpGetCachedPlan          Operation = "get_cached_plan"
	OpListCachedPlans        Operation = "list_cached_plans"
	OpStorePriorityContent   Operation = "store_priority_content"
	OpGetPriorityContent     Operation = "get_priority_content"
	OpGetSessionHistory      Operation = "get_session_history"
	OpGetProjectSessions     Operation = "get_project_sessions"
	OpStoreStats             Operation = "store_stats"
)

// Tool is implemented by every handler in this package.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

var constructors = []struct {
	op  Operation
	new func(*contextstore.Service) Tool
}{
	{OpStoreProjectContext, func(s *contextstore.Service) Tool { return NewStoreProjectContextTool(s) }},
	{OpGetProjectContext, func(s *contextstore.Service) Tool { return NewGetProjectContextTool(s) }},
	{OpListAllProjects, func(s *contextstore.Service) Tool { return NewListAllProjectsTool(s) }},
	{OpGetOtherProjectContext, func(s *contextstore.Service) Tool { return NewGetOtherProjectContextTool(s) }},
	{OpStoreGlobal, func(s *contextstore.Service) Tool { return NewStoreGlobalTool(s) }},
	{OpGetGlobal, func(s *contextstore.Service) Tool { return NewGetGlobalTool(s) }},
	{OpCachePlan, func(s *contextstore.Service) Tool { return NewCachePlanTool(s) }},
	{OpGetCachedPlan, func(s *contextstore.Service) Tool { return NewGetCachedPlanTool(s) }},
	{OpListCachedPlans, func(s *contextstore.Service) Tool { return NewListCachedPlansTool(s) }},
	{OpStorePriorityContent, func(s *contextstore.Service) Tool { return NewStorePriorityContentTool(s) }},
	{OpGetPriorityContent, func(s *contextstore.Service) Tool { return NewGetPriorityContentTool(s) }},
	{OpGetSessionHistory, func(s *contextstore.Service) Tool { return NewGetSessionHistoryTool(s) }},
	{OpGetProjectSessions, func(s *contextstore.Service) Tool { return NewGetProjectSessionsTool(s) }},
	{OpStoreStats, func(s *contextstore.Service) Tool { return NewStatsTool(s) }},
}

// Operations returns every operation in manifest order.
func Operations() []Operation {
	ops := make([]Operation, len(constructors))
	for i, c := range constructors {
		ops[i] = c.op
	}
	return ops
}

// Registry builds the server tool table for svc.
func Registry(svc *contextstore.Service) []server.ServerTool {
	out := make([]server.ServerTool, 0, len(constructors))
	for _, c := range constructors {
		t := c.new(svc)
		out = append(out, server.ServerTool{Tool: t.Definition(), Handler: t.Handle})
	}
	return out
}
