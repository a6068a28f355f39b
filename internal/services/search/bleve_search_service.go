package search

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// indexDocument is the flat shape stored in the bleve index, one per paper
type indexDocument struct {
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Abstract string `json:"abstract"`
	Keywords string `json:"keywords"`
	Content  string `json:"content"`
}

// BleveSearchService implements SearchService on a bleve index held next to
// the database. The index is derived data; Rebuild regenerates it from
// storage after loss or mapping changes.
type BleveSearchService struct {
	index    bleve.Index
	papers   interfaces.PaperStorage
	contents interfaces.ContentStorage
	logger   arbor.ILogger
	config   *common.SearchConfig
}

// NewBleveSearchService creates or opens the index at the configured path
func NewBleveSearchService(
	config *common.Config,
	papers interfaces.PaperStorage,
	contents interfaces.ContentStorage,
	logger arbor.ILogger,
) (interfaces.SearchService, error) {
	index, err := openIndex(config.Search.IndexPath)
	if err != nil {
		return nil, err
	}

	return &BleveSearchService{
		index:    index,
		papers:   papers,
		contents: contents,
		logger:   logger,
		config:   &config.Search,
	}, nil
}

func openIndex(path string) (bleve.Index, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open search index: %w", openErr)
		}
		return index, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Standard analyzer: lowercase + tokenize without stemming, so a query
	// for "bayes" does not get stemmed away from "Bayesian"
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	for _, field := range []string{"title", "authors", "abstract", "keywords", "content"} {
		docMapping.AddFieldMappingsAt(field, textField)
	}
	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return index, nil
}

// Index adds or replaces a paper in the index
func (s *BleveSearchService) Index(ctx context.Context, paper *models.Paper, content *models.PaperContent) error {
	if paper == nil || paper.ID == "" {
		return fmt.Errorf("paper with ID is required")
	}

	doc := indexDocument{
		Title:   paper.Title,
		Authors: strings.Join(paper.Authors, ", "),
	}
	if content != nil {
		doc.Abstract = content.Abstract.En
		doc.Keywords = strings.Join(content.Keywords, ", ")
		doc.Content = flattenEnglishText(content)
		if doc.Title == "" {
			doc.Title = content.Metadata.Title.En
		}
	}

	if err := s.index.Index(paper.ID, doc); err != nil {
		return fmt.Errorf("failed to index paper: %w", err)
	}
	return nil
}

// Remove deletes a paper from the index
func (s *BleveSearchService) Remove(ctx context.Context, paperID string) error {
	if err := s.index.Delete(paperID); err != nil {
		return fmt.Errorf("failed to remove paper from index: %w", err)
	}
	return nil
}

// Search runs a boosted match query and returns scored results, best first
func (s *BleveSearchService) Search(ctx context.Context, query string, limit int) ([]*models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.SearchResult{}, nil
	}

	if limit <= 0 {
		limit = 20
	}
	if s.config.MaxResults > 0 && limit > s.config.MaxResults {
		limit = s.config.MaxResults
	}

	// Additive title boost: a title match and a general match both
	// contribute, so title hits rank above body-only hits
	general := bleve.NewMatchQuery(query)
	titleQuery := bleve.NewMatchQuery(query)
	titleQuery.SetField("title")
	if s.config.TitleBoost > 1 {
		titleQuery.SetBoost(s.config.TitleBoost)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(general, titleQuery))
	req.Size = limit
	req.Fields = []string{"title"}
	req.Highlight = bleve.NewHighlight()

	results, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	out := make([]*models.SearchResult, 0, len(results.Hits))
	for _, hit := range results.Hits {
		result := &models.SearchResult{
			PaperID: hit.ID,
			Score:   hit.Score,
		}
		if title, ok := hit.Fields["title"].(string); ok {
			result.Title = title
		}
		for _, field := range []string{"content", "abstract", "title"} {
			if fragments, ok := hit.Fragments[field]; ok && len(fragments) > 0 {
				result.Fragment = fragments[0]
				break
			}
		}
		out = append(out, result)
	}
	return out, nil
}

// Rebuild reindexes every stored paper. Entries for papers deleted while
// the index was unavailable are dropped because the whole sweep is an
// upsert over current storage.
func (s *BleveSearchService) Rebuild(ctx context.Context) error {
	papers, err := s.papers.ListPapers(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list papers for rebuild: %w", err)
	}

	indexed := 0
	for _, paper := range papers {
		content, err := s.contents.GetContent(ctx, paper.ID)
		if err != nil {
			content = nil
		}
		if err := s.Index(ctx, paper, content); err != nil {
			s.logger.Warn().Err(err).Str("paper_id", paper.ID).Msg("Failed to reindex paper")
			continue
		}
		indexed++
	}

	s.logger.Info().Int("indexed", indexed).Int("total", len(papers)).Msg("Search index rebuilt")
	return nil
}

func (s *BleveSearchService) Enabled() bool {
	return true
}

// Close releases the index
func (s *BleveSearchService) Close() error {
	return s.index.Close()
}

// flattenEnglishText collects the readable English text of the whole
// document in traversal order for indexing
func flattenEnglishText(content *models.PaperContent) string {
	var sb strings.Builder
	content.WalkBilinguals(func(b *models.Bilingual) bool {
		if text := strings.TrimSpace(b.En.PlainText()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
		return true
	})
	return sb.String()
}
