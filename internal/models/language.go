package models

import (
	"strings"
	"unicode"
)

// HasChineseContent reports whether any zh slot anywhere in the document
// carries content: the abstract, the metadata title, section titles, block
// texts, captions, table cells or list items. The reading UI uses this to
// warn when a bilingual view is requested for an untranslated paper, and
// the translation service uses it to skip papers that are already done.
func (c *PaperContent) HasChineseContent() bool {
	if strings.TrimSpace(c.Abstract.Zh) != "" {
		return true
	}
	if strings.TrimSpace(c.Metadata.Title.Zh) != "" {
		return true
	}
	found := false
	c.WalkBilinguals(func(b *Bilingual) bool {
		if strings.TrimSpace(b.Zh.PlainText()) != "" {
			found = true
			return false
		}
		return true
	})
	return found
}

// ContainsHan reports whether s contains at least one Han character. Import
// pipelines use this to route extracted text into the right language slot.
func ContainsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
