package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listSectionsTool defines the list_sections MCP tool.
var listSectionsTool = mcp.NewTool("list_sections",
	mcp.WithDescription("List the documentation sections with their ids and document counts."),
)

// searchDocsTool defines the search_docs MCP tool.
var searchDocsTool = mcp.NewTool("search_docs",
	mcp.WithDescription("Search documentation titles by substring. Returns matching sections and documents with their fragments."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Substring to match against document and section titles"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

// readDocTool defines the read_doc MCP tool.
var readDocTool = mcp.NewTool("read_doc",
	mcp.WithDescription("Read the raw markdown of a document by its fragment, e.g. ecmascript/09-RegExp.md."),
	mcp.WithString("frag",
		mcp.Required(),
		mcp.Description("Document fragment in section/document form"),
	),
)
