package common

import (
	"github.com/google/uuid"
)

// NewPaperID generates a unique paper ID with the "paper_" prefix
// Format: paper_<uuid>
func NewPaperID() string {
	return "paper_" + uuid.New().String()
}

// NewNoteID generates a unique note ID with the "note_" prefix
func NewNoteID() string {
	return "note_" + uuid.New().String()
}

// NewChecklistID generates a unique checklist ID with the "chk_" prefix
func NewChecklistID() string {
	return "chk_" + uuid.New().String()
}

// NewAttachmentID generates a unique attachment ID with the "att_" prefix
func NewAttachmentID() string {
	return "att_" + uuid.New().String()
}

// NewRecordID generates a bare record ID for join rows
func NewRecordID() string {
	return uuid.New().String()
}
