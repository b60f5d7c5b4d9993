// Package ctxtools exposes the context store operations as MCP tools.
//
// Each tool follows the same shape:
// - A struct holding the contextstore.Service, injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() validates arguments, runs the operation, returns a text result
//
// Handlers never return a Go error. Bad arguments and storage failures
// come back as error-flagged results so the protocol stream keeps going.
package ctxtools

import (
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrMissingArgument is returned when a required argument is absent.
	ErrMissingArgument = errors.New("missing required argument")
	// ErrArgumentType is returned when an argument has the wrong JSON type.
	ErrArgumentType = errors.New("wrong argument type")
)

// requiredString extracts a string argument that must be present.
func requiredString(req mcp.CallToolRequest, key string) (string, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: '%s'", ErrMissingArgument, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: '%s' must be a string, got %T", ErrArgumentType, key, v)
	}
	return s, nil
}

// optionalString extracts a string argument, returning "" when absent.
func optionalString(req mcp.CallToolRequest, key string) (string, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: '%s' must be a string, got %T", ErrArgumentType, key, v)
	}
	return s, nil
}

// optionalInt extracts an integer argument, returning defaultVal when
// absent. JSON numbers arrive as float64 and must be whole.
func optionalInt(req mcp.CallToolRequest, key string, defaultVal int) (int, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return defaultVal, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%w: '%s' must be an integer, got %v", ErrArgumentType, key, n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: '%s' must be an integer, got %T", ErrArgumentType, key, v)
	}
}

// errorResult renders err as an error-flagged tool result.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
}
