// Package protocol runs the newline-delimited JSON-RPC loop over a pair of
// streams. One request is handled to completion before the next line is
// read, so responses always come out in request order.
package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// State is the adapter's handshake state.
type State int

const (
	// StateUninitialized is the state before an initialize request.
	StateUninitialized State = iota
	// StateReady is the state after a successful initialize.
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// Handler dispatches a single JSON-RPC message. *server.MCPServer
// satisfies it.
type Handler interface {
	HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage
	GetTool(name string) *server.ServerTool
}

// Adapter connects a Handler to line-oriented streams.
type Adapter struct {
	handler Handler
	logger  zerolog.Logger
	state   State
}

// New creates an Adapter in StateUninitialized.
func New(h Handler, logger zerolog.Logger) *Adapter {
	return &Adapter{handler: h, logger: logger}
}

// State reports the handshake state.
func (a *Adapter) State() State {
	return a.state
}

type readResult struct {
	line string
	err  error
}

// Serve reads requests from r and writes responses to w until r reaches
// end of input (nil), a read or write fails (the error), or ctx is done
// (ctx.Err()).
func (a *Adapter) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan readResult)
	go func() {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			select {
			case lines <- readResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-lines:
			if strings.TrimSpace(res.line) != "" {
				if resp := a.handleLine(ctx, []byte(res.line)); resp != nil {
					if err := enc.Encode(resp); err != nil {
						return fmt.Errorf("writing response: %w", err)
					}
					if err := bw.Flush(); err != nil {
						return fmt.Errorf("writing response: %w", err)
					}
				}
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					a.logger.Debug().Msg("end of input")
					return nil
				}
				return fmt.Errorf("reading request: %w", res.err)
			}
		}
	}
}

// handleLine processes one input line and returns the response to write,
// or nil when nothing should be written.
func (a *Adapter) handleLine(ctx context.Context, line []byte) any {
	line = bytes.TrimSpace(line)

	var msg map[string]json.RawMessage
	if err := json.Unmarshal(line, &msg); err != nil || msg == nil {
		if err == nil {
			err = errors.New("message is not a JSON object")
		}
		a.logger.Error().Err(err).Str("line", truncate(string(line), 200)).Msg("skipping malformed request")
		return nil
	}

	if _, ok := msg["jsonrpc"]; !ok {
		msg["jsonrpc"] = json.RawMessage(`"` + mcp.JSONRPC_VERSION + `"`)
		fixed, err := json.Marshal(msg)
		if err != nil {
			a.logger.Error().Err(err).Msg("skipping malformed request")
			return nil
		}
		line = fixed
	}

	var method string
	_ = json.Unmarshal(msg["method"], &method)
	id, hasID := requestID(msg)

	log := a.logger.With().Str("method", method).Logger()
	if hasID {
		log = log.With().Interface("id", id).Logger()
	}
	log.Debug().Msg("request")

	if a.state == StateUninitialized && hasID && method != string(mcp.MethodInitialize) {
		log.Warn().Msg("request before initialize")
	}

	if hasID && method == string(mcp.MethodToolsCall) {
		if name := toolName(msg["params"]); a.handler.GetTool(name) == nil {
			log.Warn().Str("tool", name).Msg("unknown tool")
			return mcp.NewJSONRPCResultResponse(
				mcp.NewRequestId(id),
				mcp.NewToolResultError("Unknown tool: "+name),
			)
		}
	}

	resp := a.handler.HandleMessage(ctx, json.RawMessage(line))

	if method == string(mcp.MethodInitialize) {
		if _, ok := resp.(mcp.JSONRPCResponse); ok {
			a.state = StateReady
		}
	}
	if resp == nil {
		return nil
	}
	return resp
}

// requestID returns the request id. A missing or null id marks a
// notification.
func requestID(msg map[string]json.RawMessage) (any, bool) {
	raw, ok := msg["id"]
	if !ok {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var id any
	if err := dec.Decode(&id); err != nil || id == nil {
		return nil, false
	}
	return id, true
}

func toolName(params json.RawMessage) string {
	var p struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(params, &p)
	return p.Name
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
