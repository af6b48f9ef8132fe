// Package mcp exposes the documentation corpus to AI agents over the
// Model Context Protocol: section listing, lexical search, and raw
// document retrieval.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/zhelev-dev/docview/internal/content"
)

// Version is set via ldflags at build time.
var Version = "dev"

// SourceReader resolves raw markdown for a content path. Satisfied by
// the viewer, which answers from its cache tiers before fetching.
type SourceReader interface {
	Source(ctx context.Context, path string) (string, error)
}

// Server wraps an MCP server exposing documentation tools.
type Server struct {
	index  *content.Index
	source SourceReader
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server over the given corpus index.
func NewServer(index *content.Index, source SourceReader) *Server {
	s := &Server{
		index:  index,
		source: source,
	}

	s.mcp = server.NewMCPServer(
		"docview",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listSectionsTool, s.handleListSections)
	s.mcp.AddTool(searchDocsTool, s.handleSearchDocs)
	s.mcp.AddTool(readDocTool, s.handleReadDoc)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
