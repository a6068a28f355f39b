package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createSearchPapersTool returns the search_papers tool definition
func createSearchPapersTool() mcp.Tool {
	return mcp.NewTool("search_papers",
		mcp.WithDescription("Search the paper library using full-text search (bleve) over titles, abstracts, body text and notes"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query (bleve syntax: quoted phrases, +required, -excluded)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 10, max: 50)"),
		),
	)
}

// createGetPaperTool returns the get_paper tool definition
func createGetPaperTool() mcp.Tool {
	return mcp.NewTool("get_paper",
		mcp.WithDescription("Retrieve a paper's catalog entry by ID: metadata, tags, reading state, abstract and keywords"),
		mcp.WithString("paper_id",
			mcp.Required(),
			mcp.Description("Paper ID (format: paper_{uuid})"),
		),
	)
}

// createGetPaperContentTool returns the get_paper_content tool definition
func createGetPaperContentTool() mcp.Tool {
	return mcp.NewTool("get_paper_content",
		mcp.WithDescription("Retrieve a paper's full structured content rendered as markdown: sections, paragraphs, equations, figures, tables and references"),
		mcp.WithString("paper_id",
			mcp.Required(),
			mcp.Description("Paper ID (format: paper_{uuid})"),
		),
		mcp.WithString("language",
			mcp.Description("Preferred language for bilingual text: en or zh (default: en; falls back to en where zh is missing)"),
		),
	)
}

// createListRecentPapersTool returns the list_recent_papers tool definition
func createListRecentPapersTool() mcp.Tool {
	return mcp.NewTool("list_recent_papers",
		mcp.WithDescription("List recently updated papers, optionally filtered by reading status or tag"),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20)"),
		),
		mcp.WithString("reading_status",
			mcp.Description("Filter: unread, reading, read"),
		),
		mcp.WithString("tag",
			mcp.Description("Filter by tag"),
		),
	)
}
