package models

import (
	"time"
)

// PaperContent is the root persisted document for one paper: the full
// structured content plus its notes and attachments. It is created as an
// empty skeleton when the paper is created, replaced wholesale on every save
// (last write wins, no merge) and deleted with the paper.
type PaperContent struct {
	PaperID  string          `json:"paper_id"`
	Metadata ContentMetadata `json:"metadata"`

	Abstract BilingualText `json:"abstract"`
	Keywords []string      `json:"keywords,omitempty"`

	// Sections is the ordered body tree. Section and block numbers inside it
	// are derived from position by the numbering pass on save.
	Sections   []*Section   `json:"sections,omitempty"`
	References []*Reference `json:"references,omitempty"`

	// Notes live on the root, keyed into the tree by id only. Deleting a
	// block does not cascade, so a note's BlockID may dangle.
	BlockNotes     []*BlockNote     `json:"block_notes,omitempty"`
	ChecklistNotes []*ChecklistNote `json:"checklist_notes,omitempty"`

	Attachments []*Attachment `json:"attachments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentMetadata mirrors the catalog fields inside the document itself so
// an exported document is self-contained.
type ContentMetadata struct {
	Title   BilingualText `json:"title"`
	Authors []string      `json:"authors,omitempty"`
	Venue   string        `json:"venue,omitempty"`
	Year    int           `json:"year,omitempty"`
	DOI     string        `json:"doi,omitempty"`
	ArxivID string        `json:"arxiv_id,omitempty"`
}

// Bilingual holds the en/zh variants of one inline-content slot. Either side
// may be empty; an empty zh side is what the translation service fills.
type Bilingual struct {
	En InlineList `json:"en,omitempty"`
	Zh InlineList `json:"zh,omitempty"`
}

// BilingualText is the plain-string counterpart of Bilingual for slots that
// never carry markup.
type BilingualText struct {
	En string `json:"en,omitempty"`
	Zh string `json:"zh,omitempty"`
}

// Section is a titled node of the body tree. Number is recomputed from tree
// position by the numbering pass and never hand-edited; section and block
// ids must be unique across the whole tree (stable anchors for notes and
// cross-references).
type Section struct {
	ID          string     `json:"id"`
	Number      string     `json:"number,omitempty"`
	Title       Bilingual  `json:"title"`
	Content     BlockList  `json:"content,omitempty"`
	Subsections []*Section `json:"subsections,omitempty"`
}

// Reference is one bibliography entry. Number is derived from list position.
type Reference struct {
	ID      string   `json:"id"`
	Number  int      `json:"number,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Title   string   `json:"title"`
	Venue   string   `json:"venue,omitempty"`
	Year    int      `json:"year,omitempty"`
	DOI     string   `json:"doi,omitempty"`
	URL     string   `json:"url,omitempty"`
}

// NewPaperContent creates the empty content skeleton for a freshly created
// paper.
func NewPaperContent(paperID string, meta ContentMetadata) *PaperContent {
	now := time.Now()
	return &PaperContent{
		PaperID:   paperID,
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
