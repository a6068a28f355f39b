package models

import (
	"time"
)

const (
	// ReadingStatusUnread marks a paper not yet opened
	ReadingStatusUnread = "unread"
	// ReadingStatusReading marks a paper currently being read
	ReadingStatusReading = "reading"
	// ReadingStatusRead marks a finished paper
	ReadingStatusRead = "read"
)

const (
	// ParseStatusPending indicates imported source material has not been parsed yet
	ParseStatusPending = "pending"
	// ParseStatusParsed indicates structured content was extracted successfully
	ParseStatusParsed = "parsed"
	// ParseStatusFailed indicates extraction failed; the paper exists with empty content
	ParseStatusFailed = "failed"
)

// Paper is the catalog row for one paper. The structured body lives in the
// companion PaperContent document keyed by the same ID.
type Paper struct {
	// Identity
	ID      string   `json:"id"` // paper_{uuid}
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Year    int      `json:"year,omitempty"`
	DOI     string   `json:"doi,omitempty"`
	ArxivID string   `json:"arxiv_id,omitempty"`

	// Organization
	Tags []string `json:"tags,omitempty"`

	// Reading state
	ReadingStatus string     `json:"reading_status"`   // unread, reading, read
	ParseStatus   string     `json:"parse_status"`     // pending, parsed, failed
	Progress      int        `json:"progress"`         // 0..100
	Rating        int        `json:"rating,omitempty"` // 0..5, 0 = unrated
	LastOpenedAt  *time.Time `json:"last_opened_at,omitempty"`

	// Derived from the content document on every save
	HasChineseContent bool `json:"has_chinese_content"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaperListOptions narrows and pages the catalog listing.
type PaperListOptions struct {
	ReadingStatus string
	ParseStatus   string
	Tag           string
	ChecklistID   string
	Limit         int
	Offset        int
}

// PaperStats summarizes the library for the stats endpoint.
type PaperStats struct {
	Total           int            `json:"total"`
	ByReadingStatus map[string]int `json:"by_reading_status"`
	ByParseStatus   map[string]int `json:"by_parse_status"`
	ByYear          map[int]int    `json:"by_year"`
	Translated      int            `json:"translated"` // papers with any zh content
	Rated           int            `json:"rated"`
}

// SearchResult is one full-text search hit.
type SearchResult struct {
	PaperID  string  `json:"paper_id"`
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
	Fragment string  `json:"fragment,omitempty"` // highlighted snippet when available
}
