package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/perthro/internal/index"
	"github.com/starford/perthro/internal/pageservice"
	"github.com/starford/perthro/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	v := testutil.SampleVault()
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	if err := index.Sync(db, v, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	return New(pageservice.New(pageservice.NewSnapshot(v), db))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_journal":
		result, err = srv.searchJournal(ctx, req)
	case "run_query":
		result, err = srv.runQuery(ctx, req)
	case "read_doc":
		result, err = srv.readDoc(ctx, req)
	case "render_doc":
		result, err = srv.renderDoc(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "get_query_language":
		result, err = srv.getQueryLanguage(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchJournalTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_journal", map[string]interface{}{"query": "westgate"})
	if r.IsError {
		t.Fatalf("search errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "/journal") {
		t.Errorf("search result = %q", resultText(r))
	}
}

func TestRunQueryTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "run_query", map[string]interface{}{"query": "LIST FROM #session"})
	if r.IsError {
		t.Fatalf("query errored: %s", resultText(r))
	}

	var res queryPayload
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if res.Kind != "list" || len(res.Items) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Items[0].Text != "Journal" || res.Items[0].Href != "/journal" {
		t.Errorf("item = %+v", res.Items[0])
	}
}

func TestRunQueryTool_ParseError(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "run_query", map[string]interface{}{"query": "SELECT x"})
	if !r.IsError {
		t.Error("expected error for unknown query type")
	}
}

func TestReadDocTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_doc", map[string]interface{}{"ref": "Journal"})
	if resultText(r) != "Met [[Kira]] at the westgate." {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestReadDocTool_Missing(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_doc", map[string]interface{}{"ref": "/nope"})
	if !r.IsError {
		t.Error("expected error for missing page")
	}
}

func TestRenderDocTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "render_doc", map[string]interface{}{"ref": "/journal"})
	if r.IsError {
		t.Fatalf("render errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `<a href="/npcs/kira" class="internal-link">Kira</a>`) {
		t.Errorf("render result = %q", resultText(r))
	}
}

func TestGetBacklinksTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"ref": "Kira"})
	if resultText(r) != "/journal" {
		t.Errorf("backlinks = %q, want /journal", resultText(r))
	}

	r = callTool(t, srv, "get_backlinks", map[string]interface{}{"ref": "Journal"})
	if resultText(r) != "no backlinks found" {
		t.Errorf("backlinks for unlinked page = %q", resultText(r))
	}
}

func TestGetQueryLanguageTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_query_language", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "TABLE") || !strings.Contains(text, "FROM #tag") {
		t.Errorf("guide looks wrong: %q", text)
	}
}
