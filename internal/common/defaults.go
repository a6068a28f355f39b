// Package common provides shared utilities and default configuration.
package common

// DefaultSetting represents a default key/value pair seeded on startup.
type DefaultSetting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// GetDefaultSettings returns the list of default settings seeded on startup.
// This is the single source of truth for default values; existing keys are
// never overwritten.
func GetDefaultSettings() []DefaultSetting {
	return []DefaultSetting{
		{
			Key:         "reader.font_size",
			Value:       "16",
			Description: "Base font size for the reading view",
		},
		{
			Key:         "reader.language_mode",
			Value:       "en",
			Description: "Default content language mode: en, zh, or bilingual",
		},
		{
			Key:         "reader.show_block_numbers",
			Value:       "false",
			Description: "Show derived figure/table/equation numbers in the margin",
		},
		{
			Key:         "library.default_sort",
			Value:       "updated_desc",
			Description: "Default paper list ordering",
		},
	}
}
