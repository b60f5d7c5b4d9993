// context-store: persistent context for tool-using coding agents.
//
// Keeps per-project notes, a global cache, cached plans and permanent
// priority content under ~/.claude/.session_store, and serves them as MCP
// tools over stdio.
//
// Usage:
//
//	context-store serve                 # Start MCP server (stdio transport)
//	context-store hook session-start    # SessionStart hook
//	context-store hook session-end      # SessionEnd hook
//	context-store hook show-context     # Print the project context banner
//	context-store version
package main

func main() {
	Execute()
}
