package models

// ImportResult reports the outcome of a file import
type ImportResult struct {
	PaperID     string   `json:"paper_id"`
	Title       string   `json:"title"`
	Format      string   `json:"format"`
	ParseStatus string   `json:"parse_status"`
	Warnings    []string `json:"warnings,omitempty"`
}

// TranslationReport reports the outcome of a translation run
type TranslationReport struct {
	PaperID    string `json:"paper_id"`
	Provider   string `json:"provider"`
	Scope      string `json:"scope"`
	Translated int    `json:"translated"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

// UploadedFile describes a stored upload
type UploadedFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}
