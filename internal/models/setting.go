package models

import (
	"time"
)

// Setting is one key/value pair of app-wide state: reader preferences,
// default sort, language mode. Values use simple replace semantics.
type Setting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
