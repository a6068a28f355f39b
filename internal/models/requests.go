package models

import (
	"github.com/go-playground/validator/v10"
)

// API request payloads. All fields are validated using go-playground/validator
// tags before any service call; validation failures map to 400 responses.

// CreatePaperRequest creates a catalog row plus its empty content skeleton.
type CreatePaperRequest struct {
	Title   string   `json:"title" validate:"required,min=1"`
	Authors []string `json:"authors" validate:"omitempty,dive,min=1"`
	Venue   string   `json:"venue"`
	Year    int      `json:"year" validate:"omitempty,gte=1800,lte=2100"`
	DOI     string   `json:"doi"`
	ArxivID string   `json:"arxiv_id"`
	Tags    []string `json:"tags" validate:"omitempty,dive,min=1"`
}

// Validate validates the request using go-playground/validator.
func (r *CreatePaperRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdatePaperRequest updates catalog metadata. Nil pointers leave the field
// unchanged.
type UpdatePaperRequest struct {
	Title   *string   `json:"title" validate:"omitempty,min=1"`
	Authors *[]string `json:"authors"`
	Venue   *string   `json:"venue"`
	Year    *int      `json:"year" validate:"omitempty,gte=1800,lte=2100"`
	DOI     *string   `json:"doi"`
	ArxivID *string   `json:"arxiv_id"`
	Tags    *[]string `json:"tags"`
	Rating  *int      `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// Validate validates the request using go-playground/validator.
func (r *UpdatePaperRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateProgressRequest updates reading progress and optionally the reading
// status in one call.
type UpdateProgressRequest struct {
	Progress      *int   `json:"progress" validate:"omitempty,gte=0,lte=100"`
	ReadingStatus string `json:"reading_status" validate:"omitempty,oneof=unread reading read"`
}

// Validate validates the request using go-playground/validator.
func (r *UpdateProgressRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CreateBlockNoteRequest attaches a note to a block.
type CreateBlockNoteRequest struct {
	BlockID string `json:"block_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Validate validates the request using go-playground/validator.
func (r *CreateBlockNoteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateNoteRequest replaces a note's markdown content.
type UpdateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// Validate validates the request using go-playground/validator.
func (r *UpdateNoteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SaveChecklistNoteRequest replaces the per-checklist note for a paper.
// Empty content deletes the note.
type SaveChecklistNoteRequest struct {
	Content string `json:"content"`
}

// CreateChecklistRequest creates a folder node. ParentID empty creates a
// level 1 node; naming a level 1 parent creates a level 2 node.
type CreateChecklistRequest struct {
	Name      string `json:"name" validate:"required,min=1"`
	ParentID  string `json:"parent_id"`
	SortOrder int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// Validate validates the request using go-playground/validator.
func (r *CreateChecklistRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateChecklistRequest renames or reorders a folder node.
type UpdateChecklistRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// Validate validates the request using go-playground/validator.
func (r *UpdateChecklistRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// TranslateRequest scopes a translation run.
type TranslateRequest struct {
	// Scope selects what to translate: the abstract only, metadata (title +
	// abstract + keywords), or the whole document. Default: all.
	Scope string `json:"scope" validate:"omitempty,oneof=abstract metadata all"`
	// Overwrite re-translates slots that already have zh content.
	Overwrite bool `json:"overwrite"`
}

// Validate validates the request using go-playground/validator.
func (r *TranslateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateSettingsRequest replaces the named settings values.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required,min=1"`
}

// Validate validates the request using go-playground/validator.
func (r *UpdateSettingsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
