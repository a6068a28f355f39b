package numbering

import (
	"reflect"
	"testing"

	"github.com/ternarybob/neuink/internal/models"
)

func paragraph(id string) *models.ParagraphBlock {
	return &models.ParagraphBlock{ID: id, Text: models.Bilingual{En: models.InlineList{&models.Text{Content: "text"}}}}
}

func buildNumberingContent() *models.PaperContent {
	return &models.PaperContent{
		PaperID: "paper_num",
		Sections: []*models.Section{
			{
				ID: "sec_a",
				Content: models.BlockList{
					paragraph("blk_p1"),
					&models.FigureBlock{ID: "blk_f1", Src: "images/a.png"},
					&models.MathBlock{ID: "blk_m1", Latex: "a^2", Label: "pythagoras"},
				},
			},
			{
				ID: "sec_b",
				Content: models.BlockList{
					&models.FigureBlock{ID: "blk_f2", Src: "images/b.png"},
					&models.MathBlock{ID: "blk_m2", Latex: "b^2"},
					&models.TableBlock{ID: "blk_t1"},
				},
				Subsections: []*models.Section{
					{
						ID: "sec_b1",
						Content: models.BlockList{
							&models.FigureBlock{ID: "blk_f3", Src: "images/c.png"},
							&models.MathBlock{ID: "blk_m3", Latex: "c^2", Label: "third"},
						},
					},
				},
			},
		},
		References: []*models.Reference{
			{ID: "ref_a", Title: "First"},
			{ID: "ref_b", Title: "Second"},
		},
	}
}

func TestApply_SectionNumbers(t *testing.T) {
	out := Apply(buildNumberingContent())

	tests := []struct {
		id       string
		expected string
	}{
		{"sec_a", "1"},
		{"sec_b", "2"},
		{"sec_b1", "2.1"},
	}
	for _, tt := range tests {
		s := out.FindSection(tt.id)
		if s == nil {
			t.Fatalf("section %s not found", tt.id)
		}
		if s.Number != tt.expected {
			t.Errorf("section %s: expected number %q, got %q", tt.id, tt.expected, s.Number)
		}
	}
}

func TestApply_GlobalFigureCounter(t *testing.T) {
	out := Apply(buildNumberingContent())

	// Three figures spread over two sections and a subsection still count 1, 2, 3
	expected := map[string]int{"blk_f1": 1, "blk_f2": 2, "blk_f3": 3}
	for id, want := range expected {
		fig := out.FindBlock(id).(*models.FigureBlock)
		if fig.Number != want {
			t.Errorf("figure %s: expected number %d, got %d", id, want, fig.Number)
		}
	}
}

func TestApply_EquationNumbersOnlyLabeled(t *testing.T) {
	out := Apply(buildNumberingContent())

	if n := out.FindBlock("blk_m1").(*models.MathBlock).Number; n != 1 {
		t.Errorf("first labeled equation: expected 1, got %d", n)
	}
	if n := out.FindBlock("blk_m2").(*models.MathBlock).Number; n != 0 {
		t.Errorf("unlabeled equation: expected no number, got %d", n)
	}
	if n := out.FindBlock("blk_m3").(*models.MathBlock).Number; n != 2 {
		t.Errorf("second labeled equation: expected 2, got %d", n)
	}
}

func TestApply_TableAndReferenceNumbers(t *testing.T) {
	out := Apply(buildNumberingContent())

	if n := out.FindBlock("blk_t1").(*models.TableBlock).Number; n != 1 {
		t.Errorf("table: expected 1, got %d", n)
	}
	if n := out.References[0].Number; n != 1 {
		t.Errorf("first reference: expected 1, got %d", n)
	}
	if n := out.References[1].Number; n != 2 {
		t.Errorf("second reference: expected 2, got %d", n)
	}
}

func TestApply_Idempotent(t *testing.T) {
	first := Apply(buildNumberingContent())
	second := Apply(first)

	if !reflect.DeepEqual(first, second) {
		t.Error("running the pass twice changed the output")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	input := buildNumberingContent()
	Apply(input)

	if !reflect.DeepEqual(input, buildNumberingContent()) {
		t.Error("input document was mutated")
	}
}

func TestApply_ReorderRenumbers(t *testing.T) {
	input := buildNumberingContent()
	input.Sections[0], input.Sections[1] = input.Sections[1], input.Sections[0]

	out := Apply(input)
	if s := out.FindSection("sec_b"); s.Number != "1" {
		t.Errorf("expected moved section to be 1, got %q", s.Number)
	}
	if s := out.FindSection("sec_b1"); s.Number != "1.1" {
		t.Errorf("expected descendant to follow parent, got %q", s.Number)
	}
	// Figure order follows the new document order too
	if fig := out.FindBlock("blk_f1").(*models.FigureBlock); fig.Number != 3 {
		t.Errorf("expected trailing figure to renumber to 3, got %d", fig.Number)
	}
}

func TestApply_EmptyDocument(t *testing.T) {
	out := Apply(&models.PaperContent{PaperID: "paper_empty"})
	if len(out.Sections) != 0 || len(out.References) != 0 {
		t.Error("expected empty output for empty input")
	}
}

func TestBuildRefIndex(t *testing.T) {
	out := Apply(buildNumberingContent())
	idx := BuildRefIndex(out)

	tests := []struct {
		id    string
		kind  Kind
		label string
	}{
		{"sec_b1", KindSection, "2.1"},
		{"blk_f2", KindFigure, "2"},
		{"blk_t1", KindTable, "1"},
		{"blk_m3", KindEquation, "2"},
		{"ref_b", KindCitation, "2"},
	}
	for _, tt := range tests {
		e, ok := idx[tt.id]
		if !ok {
			t.Errorf("expected index entry for %s", tt.id)
			continue
		}
		if e.Kind != tt.kind || e.Label != tt.label {
			t.Errorf("%s: expected %s %q, got %s %q", tt.id, tt.kind, tt.label, e.Kind, e.Label)
		}
	}

	// Unlabeled math never enters the index
	if _, ok := idx["blk_m2"]; ok {
		t.Error("unlabeled equation should not be indexed")
	}
}

func TestRefIndexDisplayText(t *testing.T) {
	idx := BuildRefIndex(Apply(buildNumberingContent()))

	tests := []struct {
		name     string
		node     models.Inline
		expected string
	}{
		{"citation", &models.Citation{TargetID: "ref_a"}, "[1]"},
		{"figure", &models.FigureRef{TargetID: "blk_f3"}, "Figure 3"},
		{"table", &models.TableRef{TargetID: "blk_t1"}, "Table 1"},
		{"equation", &models.EquationRef{TargetID: "blk_m1"}, "Eq. (1)"},
		{"section", &models.SectionRef{TargetID: "sec_b"}, "Section 2"},
		{"dangling target", &models.FigureRef{TargetID: "blk_gone"}, "Figure ?"},
		{"non reference node", &models.Text{Content: "plain"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.DisplayText(tt.node); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
