package mcp

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zhelev-dev/docview/internal/content"
)

// mapSource implements SourceReader over an in-memory map.
type mapSource map[string]string

func (m mapSource) Source(_ context.Context, path string) (string, error) {
	text, ok := m[path]
	if !ok {
		return "", fmt.Errorf("HTTP 404 for %s", path)
	}
	return text, nil
}

func testIndex(t *testing.T) *content.Index {
	t.Helper()
	index, err := content.NewIndex([]content.Section{
		{ID: "ecmascript", Title: "ECMAScript", RootPath: "1-ECMAScript",
			Docs: []string{"01-Intro.md", "09-RegExp.md"}},
		{ID: "browser", Title: "Browser", RootPath: "2-Browser",
			Docs: []string{"01-DOM.md"}},
	})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return index
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_sections", listSectionsTool, "list_sections"},
		{"search_docs", searchDocsTool, "search_docs"},
		{"read_doc", readDocTool, "read_doc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer(testIndex(t), mapSource{})
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleListSections(t *testing.T) {
	srv := NewServer(testIndex(t), mapSource{})

	result, err := srv.handleListSections(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := textContent(t, result)
	if !strings.Contains(text, "ECMAScript") || !strings.Contains(text, "id: browser") {
		t.Errorf("listing = %q", text)
	}
	if !strings.Contains(text, "2 document(s)") {
		t.Errorf("listing lacks doc counts: %q", text)
	}
}

func TestHandleSearchDocs(t *testing.T) {
	srv := NewServer(testIndex(t), mapSource{})
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "regexp"}

		result, err := srv.handleSearchDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := textContent(t, result)
		if !strings.Contains(text, "ecmascript/09-RegExp.md") {
			t.Errorf("result = %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("limit", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "", "limit": 2}

		result, err := srv.handleSearchDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := textContent(t, result)
		if !strings.Contains(text, "Found 2 result(s)") {
			t.Errorf("limit not applied: %q", text)
		}
	})

	t.Run("no match", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "zzzz"}

		result, err := srv.handleSearchDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatal("no-match should not be a tool error")
		}
	})
}

func TestHandleReadDoc(t *testing.T) {
	source := mapSource{
		"1-ECMAScript/09-RegExp.md": "# Regular Expressions\n\nPatterns.",
	}
	srv := NewServer(testIndex(t), source)
	ctx := context.Background()

	t.Run("existing doc", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"frag": "ecmascript/09-RegExp.md"}

		result, err := srv.handleReadDoc(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if text := textContent(t, result); !strings.Contains(text, "# Regular Expressions") {
			t.Errorf("text = %q", text)
		}
	})

	t.Run("section fragment", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"frag": "ecmascript"}

		result, err := srv.handleReadDoc(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for a section fragment")
		}
	})

	t.Run("unknown doc", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"frag": "ecmascript/99-Nope.md"}

		result, err := srv.handleReadDoc(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown document")
		}
	})
}
