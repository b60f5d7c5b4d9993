// Package server wires the context store tools into an MCP server.
//
// This is the composition root: it takes a ready contextstore.Service,
// registers the static tool table, and installs the middleware that turns
// handler failures into error-flagged results. No business logic lives here.
package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/HendryAvila/context-store/internal/ctxtools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Name is the server name reported during initialize.
const Name = "context-store"

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every context store tool registered.
func New(svc *contextstore.Service, logger zerolog.Logger) *server.MCPServer {
	hooks := &server.Hooks{}
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Error().Err(err).Interface("id", id).Str("method", string(method)).Msg("request failed")
	})
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, res *mcp.InitializeResult) {
		logger.Info().
			Str("client", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Str("protocol", res.ProtocolVersion).
			Msg("client initialized")
	})

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		// Registered first so it wraps the recovery middleware below and
		// also sees recovered panics.
		server.WithToolHandlerMiddleware(errorResults(logger)),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithInstructions(serverInstructions(svc)),
	)

	s.AddTools(ctxtools.Registry(svc)...)
	return s
}

// errorResults converts a handler error into an error-flagged result so a
// failing tool never becomes a protocol error.
func errorResults(logger zerolog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res, err := next(ctx, req)
			if err != nil {
				logger.Error().Err(err).Str("tool", req.Params.Name).Msg("tool failed")
				return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
			}
			if res != nil && res.IsError {
				logger.Debug().Str("tool", req.Params.Name).Msg("tool returned error result")
			}
			return res, nil
		}
	}
}

func serverInstructions(svc *contextstore.Service) string {
	return fmt.Sprintf(`You have access to a persistent context store that survives across sessions.

Current project: %s (id %s)

## Tiers
- Project context (store_project_context / get_project_context): notes for this directory only.
- Global cache (store_global / get_global): values visible from every project.
- Plans (cache_plan / get_cached_plan / list_cached_plans): full plan documents by name.
- Priority content (store_priority_content / get_priority_content): never deleted.

## Other projects
Use list_all_projects to find ids, then get_other_project_context or
get_project_sessions with that id.

## When to store
Store build commands, conventions, and decisions as soon as you learn them.
Read project context at the start of a session before asking the user again.

## Operations
%s`,
		svc.ProjectName(), svc.ProjectID(), operationList())
}

func operationList() string {
	ops := ctxtools.Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}
