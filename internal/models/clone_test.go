package models

import (
	"reflect"
	"testing"
)

func TestPaperContentClone_Isolation(t *testing.T) {
	original := buildTestContent()
	clone := original.Clone()

	if !reflect.DeepEqual(original, clone) {
		t.Fatal("clone differs from original before mutation")
	}

	// Mutate the clone at every depth
	clone.Metadata.Title.En = "changed"
	clone.Sections[0].Title.En[0].(*Text).Content = "changed"
	clone.Sections[1].Subsections[0].Content[0].(*ParagraphBlock).Text.En[0].(*Text).Content = "changed"
	clone.References[0].Title = "changed"
	clone.Sections[0].Content = append(clone.Sections[0].Content, &DividerBlock{ID: "blk_new"})

	pristine := buildTestContent()
	if !reflect.DeepEqual(original, pristine) {
		t.Error("mutating the clone changed the original")
	}
}

func TestCloneBlock_TableRows(t *testing.T) {
	table := &TableBlock{
		ID:   "blk_t",
		Rows: [][]Bilingual{{{En: InlineList{&Text{Content: "cell"}}}}},
	}

	clone := table.CloneBlock().(*TableBlock)
	clone.Rows[0][0].En[0].(*Text).Content = "changed"

	if table.Rows[0][0].En[0].(*Text).Content != "cell" {
		t.Error("mutating a cloned table cell changed the original")
	}
}

func TestCloneInline_LinkChildren(t *testing.T) {
	link := &Link{
		Children: InlineList{&Text{Content: "label"}},
		Href:     "https://example.org",
	}

	clone := link.CloneInline().(*Link)
	clone.Children[0].(*Text).Content = "changed"

	if link.Children[0].(*Text).Content != "label" {
		t.Error("mutating cloned link children changed the original")
	}
}
