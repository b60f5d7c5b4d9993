package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/HendryAvila/context-store/internal/ctxtools"
	"github.com/HendryAvila/context-store/internal/records"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) (*server.MCPServer, *contextstore.Service) {
	t.Helper()
	fs := records.NewFileStore(t.TempDir(), zerolog.Nop())
	svc := contextstore.New(fs, "/home/dev/api", zerolog.Nop())
	return New(svc, zerolog.Nop()), svc
}

func send(t *testing.T, s *server.MCPServer, msg string) *mcp.CallToolResult {
	t.Helper()
	out := s.HandleMessage(context.Background(), json.RawMessage(msg))
	resp, ok := out.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T: %+v", out, out)
	}
	res, ok := resp.Result.(*mcp.CallToolResult)
	if !ok {
		t.Fatalf("expected *CallToolResult, got %T", resp.Result)
	}
	return res
}

func text(r *mcp.CallToolResult) string {
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestNew_RegistersAllTools(t *testing.T) {
	s, _ := newTestServer(t)

	for _, op := range ctxtools.Operations() {
		if s.GetTool(string(op)) == nil {
			t.Errorf("tool %q not registered", op)
		}
	}
	if got := len(s.ListTools()); got != len(ctxtools.Operations()) {
		t.Errorf("registered %d tools, want %d", got, len(ctxtools.Operations()))
	}
}

func TestNew_ToolCallRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)

	res := send(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"store_global","arguments":{"key":"k","value":"v"}}}`)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text(res))
	}
	res = send(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_global","arguments":{"key":"k"}}}`)
	if text(res) != "v" {
		t.Errorf("get_global = %q", text(res))
	}
}

func TestNew_HandlerErrorsBecomeResults(t *testing.T) {
	s, _ := newTestServer(t)
	s.AddTool(mcp.NewTool("boom"), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("disk full")
	})
	s.AddTool(mcp.NewTool("panics"), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("unexpected nil")
	})

	res := send(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"boom"}}`)
	if !res.IsError || text(res) != "Error: disk full" {
		t.Errorf("boom = %v %q", res.IsError, text(res))
	}

	res = send(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"panics"}}`)
	if !res.IsError || !strings.HasPrefix(text(res), "Error: ") || !strings.Contains(text(res), "unexpected nil") {
		t.Errorf("panics = %v %q", res.IsError, text(res))
	}
}

func TestNew_Instructions(t *testing.T) {
	_, svc := newTestServer(t)
	got := serverInstructions(svc)
	if !strings.Contains(got, "Current project: api (id "+svc.ProjectID()+")") {
		t.Errorf("instructions missing project line:\n%s", got)
	}
	if !strings.Contains(got, "store_project_context, get_project_context,") || !strings.HasSuffix(got, "store_stats") {
		t.Errorf("instructions missing operation list:\n%s", got)
	}
}
