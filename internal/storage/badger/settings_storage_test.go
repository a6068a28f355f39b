package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

func TestSettingsStorage(t *testing.T) {
	db := newTestDB(t)
	storage := NewSettingsStorage(db, arbor.NewLogger())
	ctx := context.Background()

	// Keys are case-insensitive
	if err := storage.Set(ctx, &models.Setting{Key: "Reader.Font_Size", Value: "18"}); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	got, err := storage.Get(ctx, "reader.font_size")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got.Value != "18" {
		t.Errorf("Expected value 18, got %s", got.Value)
	}

	// Replace semantics
	if err := storage.Set(ctx, &models.Setting{Key: "reader.font_size", Value: "20"}); err != nil {
		t.Fatalf("Failed to replace: %v", err)
	}
	got, _ = storage.Get(ctx, "reader.font_size")
	if got.Value != "20" {
		t.Errorf("Expected replaced value 20, got %s", got.Value)
	}

	all, err := storage.GetAll(ctx)
	if err != nil {
		t.Fatalf("Failed to get all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 setting, got %d", len(all))
	}

	if err := storage.Delete(ctx, "reader.font_size"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := storage.Get(ctx, "reader.font_size"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
