// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the vault to LLM integrations via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/perthro/internal/pageservice"
	"github.com/starford/perthro/internal/query"
)

// Server wraps the MCP server with the vault tools.
type Server struct {
	mcp *server.MCPServer
	svc *pageservice.Service
}

// New creates a new MCP server with all vault tools registered.
func New(svc *pageservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Perthro",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_journal",
		mcp.WithDescription("Full-text search through vault pages."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchJournal)

	s.mcp.AddTool(mcp.NewTool("run_query",
		mcp.WithDescription("Run a TABLE or LIST query over the vault and return the "+
			"result as JSON. Read the grammar first via the get_query_language tool "+
			"or the perthro://query-language resource."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Query text (e.g. TABLE name, rank FROM #quest SORT rank DESC)")),
	), s.runQuery)

	s.mcp.AddTool(mcp.NewTool("read_doc",
		mcp.WithDescription("Read the raw Markdown body of a vault page."),
		mcp.WithString("ref", mcp.Required(), mcp.Description("Page reference: site slug, vault path, or bare name (e.g. /moves/face-danger, Moves/Face Danger.md, Face Danger)")),
	), s.readDoc)

	s.mcp.AddTool(mcp.NewTool("render_doc",
		mcp.WithDescription("Render a vault page to HTML with mechanics blocks, "+
			"wikilinks, and embedded queries evaluated."),
		mcp.WithString("ref", mcp.Required(), mcp.Description("Page reference: site slug, vault path, or bare name")),
	), s.renderDoc)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all pages that link to the specified page."),
		mcp.WithString("ref", mcp.Required(), mcp.Description("Page reference to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("get_query_language",
		mcp.WithDescription("Returns the query language guide. "+
			"Call this before run_query to learn the grammar."),
	), s.getQueryLanguage)

	// Resource: query language guide.
	s.mcp.AddResource(
		mcp.NewResource("perthro://query-language", "Query Language Guide",
			mcp.WithResourceDescription("Grammar and semantics of TABLE/LIST queries."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readQueryLanguageResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, q, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

// queryPayload is the JSON shape run_query returns. Kind uses the same wire
// names as the HTTP API.
type queryPayload struct {
	Kind    string          `json:"kind"`
	Headers []string        `json:"headers,omitempty"`
	Rows    [][]cellPayload `json:"rows,omitempty"`
	Items   []cellPayload   `json:"items,omitempty"`
}

type cellPayload struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

func toPayload(res query.Result) queryPayload {
	out := queryPayload{Kind: res.Kind.String(), Headers: res.Headers}
	for _, row := range res.Rows {
		out.Rows = append(out.Rows, cells(row))
	}
	out.Items = cells(res.Items)
	return out
}

func cells(in []query.Cell) []cellPayload {
	if len(in) == 0 {
		return nil
	}
	out := make([]cellPayload, len(in))
	for i, c := range in {
		out[i] = cellPayload{Text: c.Text, Href: c.Href}
	}
	return out
}

func (s *Server) runQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.RunQuery(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(toPayload(res), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.ReadDoc(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", ref)), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) renderDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	html, err := s.svc.RenderDoc(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", ref)), nil
	}
	return mcp.NewToolResultText(html), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) getQueryLanguage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(QueryLanguageGuide), nil
}

func (s *Server) readQueryLanguageResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "perthro://query-language",
			MIMEType: "text/markdown",
			Text:     QueryLanguageGuide,
		},
	}, nil
}
