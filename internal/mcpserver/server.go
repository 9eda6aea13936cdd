// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Jera page tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/pageservice"
)

// Server wraps the MCP server with Jera tools.
type Server struct {
	mcp *server.MCPServer
	svc *pageservice.Service
}

// New creates a new MCP server with all Jera tools registered.
func New(svc *pageservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Jera",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_pages",
		mcp.WithDescription("Full-text search through generated collection pages."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPages)

	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read the full rendered content of a generated collection page."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Output path of the page (e.g. _demos/virtual-wardrobe.md)")),
	), s.readPage)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List generated pages, optionally filtered by category."),
		mcp.WithString("category", mcp.Description("Optional category filter: demos, experiments, or snippets")),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("sync_site",
		mcp.WithDescription("Run a full content synchronization pass and return the report "+
			"(pages synced, skipped, and pruned)."),
	), s.syncSite)

	// Resource: front matter contract of generated pages.
	s.mcp.AddResource(
		mcp.NewResource("jera://front-matter-contract", "Front Matter Contract",
			mcp.WithResourceDescription("Schema of the YAML front matter emitted on every generated page."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
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

func (s *Server) searchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No pages found."), nil
	}
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "- %s (%s)\n  %s\n", r.Title, r.OutputPath, r.Snippet)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetPage(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("page not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(detail.Content), nil
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")
	items, total, err := s.svc.ListPages(ctx, 500, 0, category, "", "output_path")
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCategory) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid category: %s", category)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	payload, err := json.MarshalIndent(map[string]any{"pages": items, "total": total}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) syncSite(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.svc.Sync(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Sync complete: %d synced, %d skipped, %d pruned.",
		report.Synced, report.Skipped, report.Pruned)), nil
}

func (s *Server) readContractResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     FrontMatterContract,
		},
	}, nil
}
