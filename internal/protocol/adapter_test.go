package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/HendryAvila/context-store/internal/ctxtools"
	"github.com/HendryAvila/context-store/internal/records"
	ctxserver "github.com/HendryAvila/context-store/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func newTestAdapter(t *testing.T) (*Adapter, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	fs := records.NewFileStore(t.TempDir(), logger)
	svc := contextstore.New(fs, "/home/dev/api", logger)
	return New(ctxserver.New(svc, logger), logger), &logs
}

func run(t *testing.T, a *Adapter, lines ...string) []response {
	t.Helper()
	var out bytes.Buffer
	err := a.Serve(context.Background(), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, err)

	var resps []response
	for _, l := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
		if l == "" {
			continue
		}
		var r response
		require.NoError(t, json.Unmarshal([]byte(l), &r), "output line %q", l)
		resps = append(resps, r)
	}
	return resps
}

func decodeTool(t *testing.T, r response) toolResult {
	t.Helper()
	require.Nil(t, r.Error, "unexpected protocol error")
	var tr toolResult
	require.NoError(t, json.Unmarshal(r.Result, &tr))
	require.Len(t, tr.Content, 1)
	assert.Equal(t, "text", tr.Content[0].Type)
	return tr
}

const initialize = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`

func TestServe_Handshake(t *testing.T) {
	a, _ := newTestAdapter(t)
	assert.Equal(t, StateUninitialized, a.State())

	resps := run(t, a,
		initialize,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
	)
	require.Len(t, resps, 1, "notification must not get a response")
	assert.Equal(t, "1", string(resps[0].ID))
	assert.Equal(t, StateReady, a.State())

	var init struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
		Capabilities map[string]json.RawMessage `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(resps[0].Result, &init))
	assert.Equal(t, "2024-11-05", init.ProtocolVersion)
	assert.Equal(t, ctxserver.Name, init.ServerInfo.Name)
	assert.Contains(t, init.Capabilities, "tools")
}

func TestServe_ToolsList(t *testing.T) {
	a, _ := newTestAdapter(t)
	resps := run(t, a, initialize, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Len(t, resps, 2)

	var list struct {
		Tools []struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resps[1].Result, &list))

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.Equal(t, "object", tool.InputSchema["type"], tool.Name)
	}
	for _, op := range ctxtools.Operations() {
		assert.Contains(t, names, string(op))
	}
}

func TestServe_UnknownToolThenNormalRequest(t *testing.T) {
	a, _ := newTestAdapter(t)
	resps := run(t, a,
		initialize,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"drop_database","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"store_project_context","arguments":{"key":"build_cmd","value":"make -j4","priority":8}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_project_context","arguments":{"key":"build_cmd"}}}`,
	)
	require.Len(t, resps, 4)

	unknown := decodeTool(t, resps[1])
	assert.True(t, unknown.IsError)
	assert.Equal(t, "Unknown tool: drop_database", unknown.Content[0].Text)
	assert.Equal(t, "2", string(resps[1].ID))

	stored := decodeTool(t, resps[2])
	assert.False(t, stored.IsError)
	assert.Equal(t, "Stored 'build_cmd' in project api (priority 8)", stored.Content[0].Text)

	got := decodeTool(t, resps[3])
	assert.Equal(t, "make -j4", got.Content[0].Text)
	assert.Equal(t, "4", string(resps[3].ID))
}

func TestServe_ArgumentErrorIsFlagged(t *testing.T) {
	a, _ := newTestAdapter(t)
	resps := run(t, a,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"store_global","arguments":{"key":5,"value":"v"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"cache_plan","arguments":{"plan_name":"p"}}}`,
	)
	require.Len(t, resps, 2)
	for _, r := range resps {
		tr := decodeTool(t, r)
		assert.True(t, tr.IsError)
		assert.True(t, strings.HasPrefix(tr.Content[0].Text, "Error: "), tr.Content[0].Text)
	}
}

func TestServe_MalformedLineSkipped(t *testing.T) {
	a, logs := newTestAdapter(t)
	resps := run(t, a,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call"`,
		``,
		`   `,
		`[1,2,3]`,
		`null`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"list_cached_plans"}}`,
	)
	require.Len(t, resps, 1)
	assert.Equal(t, "2", string(resps[0].ID))
	assert.Equal(t, "No cached plans", decodeTool(t, resps[0]).Content[0].Text)
	assert.Contains(t, logs.String(), "skipping malformed request")
}

func TestServe_UnknownMethod(t *testing.T) {
	a, _ := newTestAdapter(t)
	resps := run(t, a,
		`{"jsonrpc":"2.0","id":"abc","method":"resources/frobnicate"}`,
		`{"jsonrpc":"2.0","method":"notifications/whatever"}`,
	)
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, -32601, resps[0].Error.Code)
	assert.Equal(t, `"abc"`, string(resps[0].ID))
}

func TestServe_MissingJSONRPCField(t *testing.T) {
	a, _ := newTestAdapter(t)
	resps := run(t, a, `{"id":7,"method":"tools/call","params":{"name":"get_global","arguments":{}}}`)
	require.Len(t, resps, 1)
	assert.Equal(t, "2.0", resps[0].JSONRPC)
	assert.Equal(t, "7", string(resps[0].ID))
	assert.Equal(t, "No global cache", decodeTool(t, resps[0]).Content[0].Text)
}

func TestServe_RequestBeforeInitializeWarns(t *testing.T) {
	a, logs := newTestAdapter(t)
	resps := run(t, a, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Len(t, resps, 1)
	assert.Nil(t, resps[0].Error)
	assert.Equal(t, StateUninitialized, a.State())
	assert.Contains(t, logs.String(), "request before initialize")
}

func TestServe_ResponsesInOrder(t *testing.T) {
	a, _ := newTestAdapter(t)
	var lines []string
	for i := 1; i <= 30; i++ {
		lines = append(lines, `{"jsonrpc":"2.0","id":`+itoa(i)+`,"method":"tools/call","params":{"name":"store_global","arguments":{"key":"n","value":"`+itoa(i)+`"}}}`)
	}
	lines = append(lines, `{"jsonrpc":"2.0","id":31,"method":"tools/call","params":{"name":"get_global","arguments":{"key":"n"}}}`)

	resps := run(t, a, lines...)
	require.Len(t, resps, 31)
	for i, r := range resps {
		assert.Equal(t, itoa(i+1), string(r.ID))
	}
	assert.Equal(t, "30", decodeTool(t, resps[30]).Content[0].Text)
}

func TestServe_FinalLineWithoutNewline(t *testing.T) {
	a, _ := newTestAdapter(t)
	var out bytes.Buffer
	err := a.Serve(context.Background(), strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"id":1`)
}

func TestServe_ReadError(t *testing.T) {
	a, _ := newTestAdapter(t)
	boom := errors.New("boom")
	err := a.Serve(context.Background(), iotest.ErrReader(boom), io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestServe_ContextCancelled(t *testing.T) {
	a, _ := newTestAdapter(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, pr, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
