package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// handleSearchPapers implements the search_papers tool
func handleSearchPapers(searchService interfaces.SearchService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse query parameter (required)
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: query parameter is required"),
				},
			}, nil
		}

		// Parse limit (default: 10, max: 50)
		limit := request.GetInt("limit", 10)
		if limit > 50 {
			limit = 50
		}

		// Execute search
		results, err := searchService.Search(ctx, query, limit)
		if err != nil {
			logger.Error().Err(err).Msg("Search failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Search error: %v", err)),
				},
			}, nil
		}

		// Format results as markdown
		markdown := formatSearchResults(query, results)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleGetPaper implements the get_paper tool
func handleGetPaper(papers interfaces.PaperStorage, contents interfaces.ContentStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse paper_id parameter (required)
		paperID, err := request.RequireString("paper_id")
		if err != nil || paperID == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: paper_id parameter is required"),
				},
			}, nil
		}

		// Retrieve catalog entry
		paper, err := papers.GetPaper(ctx, paperID)
		if err != nil {
			if !errors.Is(err, interfaces.ErrNotFound) {
				logger.Error().Err(err).Str("paper_id", paperID).Msg("GetPaper failed")
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Paper not found: %v", err)),
				},
			}, nil
		}

		// The content document carries abstract and keywords; tolerate its
		// absence so a corrupt library still answers catalog queries.
		content, err := contents.GetContent(ctx, paperID)
		if err != nil {
			content = nil
		}

		// Format as markdown
		markdown := formatPaper(paper, content)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleGetPaperContent implements the get_paper_content tool
func handleGetPaperContent(contents interfaces.ContentStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse paper_id parameter (required)
		paperID, err := request.RequireString("paper_id")
		if err != nil || paperID == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: paper_id parameter is required"),
				},
			}, nil
		}

		// Parse language preference (default: en)
		language := request.GetString("language", "en")
		if language != "zh" {
			language = "en"
		}

		// Retrieve content document
		content, err := contents.GetContent(ctx, paperID)
		if err != nil {
			if !errors.Is(err, interfaces.ErrNotFound) {
				logger.Error().Err(err).Str("paper_id", paperID).Msg("GetContent failed")
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Paper content not found: %v", err)),
				},
			}, nil
		}

		// Format as markdown
		markdown := formatPaperContent(content, language)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleListRecentPapers implements the list_recent_papers tool
func handleListRecentPapers(papers interfaces.PaperStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse limit (default: 20)
		limit := request.GetInt("limit", 20)

		opts := &models.PaperListOptions{
			ReadingStatus: request.GetString("reading_status", ""),
			Tag:           request.GetString("tag", ""),
			Limit:         limit,
		}

		// Catalog listing is already newest-updated first
		recent, err := papers.ListPapers(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Msg("List recent failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("List error: %v", err)),
				},
			}, nil
		}

		// Format results as markdown
		markdown := formatRecentPapers(recent, limit)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}
