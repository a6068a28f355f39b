package search

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
)

// NewSearchService creates a search service based on configuration.
// With search disabled the no-op service is returned and the search
// endpoint reports 503 Service Unavailable.
func NewSearchService(
	config *common.Config,
	papers interfaces.PaperStorage,
	contents interfaces.ContentStorage,
	logger arbor.ILogger,
) (interfaces.SearchService, error) {
	if !config.Search.Enabled {
		logger.Warn().Msg("Search is disabled in configuration: using no-op search service")
		return NewDisabledSearchService(logger), nil
	}

	logger.Info().
		Str("index_path", config.Search.IndexPath).
		Float64("title_boost", config.Search.TitleBoost).
		Msg("Initializing bleve search service")

	return NewBleveSearchService(config, papers, contents, logger)
}
