package models

import (
	"time"
)

// Attachment records one uploaded file stored alongside a paper, typically
// the source PDF. The bytes live on disk under the attachments dir; this
// record lives in the paper's content document.
type Attachment struct {
	ID          string    `json:"id"` // att_{uuid}
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	PageCount   int       `json:"page_count,omitempty"` // PDFs only
	UploadedAt  time.Time `json:"uploaded_at"`
}
