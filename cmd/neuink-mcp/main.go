package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/services/search"
	"github.com/ternarybob/neuink/internal/storage"
)

func main() {
	// Load configuration
	configPath := os.Getenv("NEUINK_CONFIG")
	if configPath == "" {
		configPath = "neuink.toml"
	}

	config, err := common.LoadFromFiles(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logger for the MCP server (console only, no file output).
	// Stdout carries the protocol, so keep logging at warn and above.
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	// Initialize storage
	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	// Initialize search service
	searchService, err := search.NewSearchService(
		config,
		storageManager.PaperStorage(),
		storageManager.ContentStorage(),
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize search service")
	}
	defer searchService.Close()

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"neuink",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register library tools
	mcpServer.AddTool(createSearchPapersTool(), handleSearchPapers(searchService, logger))
	mcpServer.AddTool(createGetPaperTool(), handleGetPaper(storageManager.PaperStorage(), storageManager.ContentStorage(), logger))
	mcpServer.AddTool(createGetPaperContentTool(), handleGetPaperContent(storageManager.ContentStorage(), logger))
	mcpServer.AddTool(createListRecentPapersTool(), handleListRecentPapers(storageManager.PaperStorage(), logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
