package models

// InlineType identifies the concrete variant of an Inline on the wire.
type InlineType string

const (
	InlineTypeText        InlineType = "text"
	InlineTypeLink        InlineType = "link"
	InlineTypeMath        InlineType = "inline_math"
	InlineTypeCitation    InlineType = "citation"
	InlineTypeFigureRef   InlineType = "figure_ref"
	InlineTypeTableRef    InlineType = "table_ref"
	InlineTypeEquationRef InlineType = "equation_ref"
	InlineTypeSectionRef  InlineType = "section_ref"
	InlineTypeFootnote    InlineType = "footnote"
)

// Inline is a renderable unit inside a block's text content: a styled text
// run, a link, inline math, a cross-reference marker or a footnote. The set
// of variants is sealed by the unexported marker method.
//
// Reference markers carry only the target entity's id. Display text
// ("Figure 3", "[12]") is always resolved at render time from the numbering
// index, so reordering can never leave a stale cached label behind.
type Inline interface {
	InlineType() InlineType
	CloneInline() Inline
	inline()
}

// InlineList is an ordered list of inline nodes with union-aware JSON
// decoding.
type InlineList []Inline

// Text is a run of characters with optional style flags.
type Text struct {
	Content       string `json:"content"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Code          bool   `json:"code,omitempty"`
}

func (n *Text) InlineType() InlineType { return InlineTypeText }
func (n *Text) inline()                {}

// Link wraps child inline content in a hyperlink.
type Link struct {
	Children InlineList `json:"children"`
	Href     string     `json:"href"`
}

func (n *Link) InlineType() InlineType { return InlineTypeLink }
func (n *Link) inline()                {}

// InlineMath is a LaTeX fragment rendered within the line.
type InlineMath struct {
	Latex string `json:"latex"`
}

func (n *InlineMath) InlineType() InlineType { return InlineTypeMath }
func (n *InlineMath) inline()                {}

// Citation marks a reference to a bibliography entry by Reference.ID.
type Citation struct {
	TargetID string `json:"target_id"`
}

func (n *Citation) InlineType() InlineType { return InlineTypeCitation }
func (n *Citation) inline()                {}

// FigureRef marks a cross-reference to a FigureBlock by id.
type FigureRef struct {
	TargetID string `json:"target_id"`
}

func (n *FigureRef) InlineType() InlineType { return InlineTypeFigureRef }
func (n *FigureRef) inline()                {}

// TableRef marks a cross-reference to a TableBlock by id.
type TableRef struct {
	TargetID string `json:"target_id"`
}

func (n *TableRef) InlineType() InlineType { return InlineTypeTableRef }
func (n *TableRef) inline()                {}

// EquationRef marks a cross-reference to a labeled MathBlock by id.
type EquationRef struct {
	TargetID string `json:"target_id"`
}

func (n *EquationRef) InlineType() InlineType { return InlineTypeEquationRef }
func (n *EquationRef) inline()                {}

// SectionRef marks a cross-reference to a Section by id.
type SectionRef struct {
	TargetID string `json:"target_id"`
}

func (n *SectionRef) InlineType() InlineType { return InlineTypeSectionRef }
func (n *SectionRef) inline()                {}

// Footnote carries its note text inline; numbering is presentational, by
// order of appearance.
type Footnote struct {
	Content string `json:"content"`
}

func (n *Footnote) InlineType() InlineType { return InlineTypeFootnote }
func (n *Footnote) inline()                {}
