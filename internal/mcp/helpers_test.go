package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/openenc/internal/config"
)

// newTestServer builds a server with the given config (nil for defaults)
// and a logger that discards output.
func newTestServer(t testing.TB, cfg *config.Config) *Server {
	t.Helper()
	s, err := newServer(cfg, &DiagnosticLogger{logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return s
}

type toolHandler func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// callTool invokes handler directly and decodes the JSON text content.
func callTool(t testing.TB, name string, handler toolHandler, args interface{}) (map[string]interface{}, bool) {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}

	result, err := handler(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{
		Name:      name,
		Arguments: raw,
	}})
	if err != nil {
		t.Fatalf("%s returned protocol error: %v", name, err)
	}
	return decodeResult(t, result), result.IsError
}

func decodeResult(t testing.TB, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(text.Text), &data); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, text.Text)
	}
	return data
}
