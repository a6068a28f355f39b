package models

import (
	"time"
)

// BlockNote is a free-text annotation attached to exactly one block by id.
// Notes have their own CRUD lifecycle over the API but are persisted inside
// the owning PaperContent document, not nested inside the block. The BlockID
// reference is weak: deleting a block leaves its notes behind.
type BlockNote struct {
	ID        string    `json:"id"` // note_{uuid}
	BlockID   string    `json:"block_id"`
	Content   string    `json:"content"` // markdown
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChecklistNote is the per-(paper, checklist) markdown note. There is at
// most one per checklist id within a paper; saving replaces the content.
type ChecklistNote struct {
	ID          string    `json:"id"` // note_{uuid}
	ChecklistID string    `json:"checklist_id"`
	Content     string    `json:"content"` // markdown
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
