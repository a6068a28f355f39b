package models

import (
	"time"
)

const (
	// ChecklistMaxDepth is the deepest level a checklist node may have.
	// The hierarchy is deliberately two levels: folders and subfolders.
	ChecklistMaxDepth = 2
)

// Checklist is one node of the two-level folder tree used to organize
// papers. Level 1 nodes are top-level folders (ParentID empty); level 2
// nodes name a level 1 parent. FullPath is "parent/child" for level 2 and
// just the name for level 1, maintained on rename.
type Checklist struct {
	ID        string    `json:"id"` // chk_{uuid}
	Name      string    `json:"name"`
	Level     int       `json:"level"` // 1 or 2
	ParentID  string    `json:"parent_id,omitempty"`
	FullPath  string    `json:"full_path"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaperChecklistRecord associates one paper with one checklist node. Papers
// may belong to any number of nodes; membership is a separate join row, not
// a field on either side.
type PaperChecklistRecord struct {
	ID          string    `json:"id"`
	PaperID     string    `json:"paper_id"`
	ChecklistID string    `json:"checklist_id"`
	AddedAt     time.Time `json:"added_at"`
}

// ChecklistTreeNode is the composed tree shape returned by the API.
type ChecklistTreeNode struct {
	Checklist
	PaperCount int                  `json:"paper_count"`
	Children   []*ChecklistTreeNode `json:"children,omitempty"`
}
