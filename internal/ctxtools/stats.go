package ctxtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatsTool handles the store_stats MCP tool.
type StatsTool struct {
	svc *contextstore.Service
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(svc *contextstore.Service) *StatsTool {
	return &StatsTool{svc: svc}
}

// Definition returns the MCP tool definition for store_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool(string(OpStoreStats),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Show context store statistics: entries per tier and the number of record files currently unreadable."),
	)
}

// Handle processes the store_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := t.svc.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("## Context Store Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- **Current project**: %s (%d keys)\n", st.CurrentProjectID, st.ProjectContext))
	sb.WriteString(fmt.Sprintf("- **Projects**: %d tracked, %d records\n", st.TrackedProjects, st.ProjectRecords))
	sb.WriteString(fmt.Sprintf("- **Global keys**: %d\n", st.GlobalKeys))
	sb.WriteString(fmt.Sprintf("- **Session history**: %d\n", st.SessionHistory))
	sb.WriteString(fmt.Sprintf("- **Cached plans**: %d (%s chars)\n", st.CachedPlans, humanize.Comma(int64(st.PlanChars))))
	sb.WriteString(fmt.Sprintf("- **Priority entries**: %d (%s chars)\n", st.PriorityEntries, humanize.Comma(int64(st.PriorityChars))))
	sb.WriteString(fmt.Sprintf("- **Unreadable records**: %d\n", st.CorruptRecords))

	return mcp.NewToolResultText(sb.String()), nil
}
