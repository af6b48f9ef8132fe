package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zhelev-dev/docview/internal/content"
	"github.com/zhelev-dev/docview/internal/palette"
	"github.com/zhelev-dev/docview/internal/route"
)

// handleListSections lists every section with its id and size.
func (s *Server) handleListSections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sections := s.index.Sections()
	if len(sections) == 0 {
		return mcp.NewToolResultText("No sections configured."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d section(s):\n", len(sections))
	for _, sec := range sections {
		fmt.Fprintf(&sb, "\n- %s (id: %s, %d document(s))", sec.Title, sec.ID, len(sec.Docs))
		if sec.Description != "" {
			fmt.Fprintf(&sb, "\n  %s", sec.Description)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSearchDocs runs the same lexical filter the command palette
// uses.
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	results := palette.Filter(s.index.Entries(), query)
	if len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No documents match %q.", query)), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleReadDoc resolves a fragment to its content path and returns
// the raw markdown.
func (s *Server) handleReadDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	frag, err := request.RequireString("frag")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: frag"), nil
	}

	target := route.Parse(frag)
	if !target.IsDoc() {
		return mcp.NewToolResultError(fmt.Sprintf(
			"%q is not a document fragment; expected section/document form", frag)), nil
	}

	path, ok := s.index.DocPath(target.SectionID, target.DocID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown document %q", frag)), nil
	}

	text, err := s.source.Source(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", path, err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// formatSearchResults converts palette entries into a text listing for
// agent consumption.
func formatSearchResults(results []content.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(results))
	for _, e := range results {
		kind := "document"
		if e.IsSection() {
			kind = "section"
		}
		fmt.Fprintf(&sb, "\n- %s (%s in %s)\n  fragment: %s", e.Label, kind, e.SectionTitle, e.Frag)
	}
	return sb.String()
}
