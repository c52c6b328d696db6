// Package doctree defines the abstract document tree the quiz compiler
// consumes: an ordered sequence of block-level nodes (paragraphs, list items,
// tables, images) whose text content carries inline styling, images, and
// equations. How the tree was obtained (DOCX, PDF, plain text, an HTTP
// payload) is an ingest concern; the compiler only ever walks this model.
package doctree

import "strings"

// BlockKind identifies the concrete type of a Block.
type BlockKind int

const (
	BlockUnknown BlockKind = iota
	BlockParagraph
	BlockListItem
	BlockTable
	BlockImage
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockListItem:
		return "list_item"
	case BlockTable:
		return "table"
	case BlockImage:
		return "image"
	default:
		return "unknown"
	}
}

// Block is a top-level document node. The set of implementations is closed:
// Paragraph, ListItem, Table, and Image.
type Block interface {
	Kind() BlockKind
}

// Inline is a node inside a paragraph or list item: a styled text run, an
// inline image, or an equation.
type Inline interface {
	inlineNode()
}

// GlyphKind is the bullet/numbering style a list item was authored with.
type GlyphKind int

const (
	GlyphBullet GlyphKind = iota
	GlyphNumber
	GlyphAlpha
	GlyphAlphaUpper
	GlyphRoman
	GlyphRomanUpper
)

func (g GlyphKind) String() string {
	switch g {
	case GlyphNumber:
		return "number"
	case GlyphAlpha:
		return "alpha"
	case GlyphAlphaUpper:
		return "alpha_upper"
	case GlyphRoman:
		return "roman"
	case GlyphRomanUpper:
		return "roman_upper"
	default:
		return "bullet"
	}
}

// TextStyle is the formatting attribute set shared by one run.
type TextStyle struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Superscript   bool
	Subscript     bool
	LinkURL       string
}

// IsPlain reports whether the run carries no formatting at all.
func (s TextStyle) IsPlain() bool {
	return s == TextStyle{}
}

// TextRun is a contiguous span of text sharing one attribute set. Ingest
// adapters split source text at every attribute-change boundary, so a run is
// always homogeneous.
type TextRun struct {
	Text  string
	Style TextStyle
}

func (*TextRun) inlineNode() {}

// InlineImage is an image anchored inside a paragraph's text flow.
// Width and Height are in points; zero or negative means "not declared".
type InlineImage struct {
	Data   []byte
	MIME   string
	Width  float64
	Height float64
}

func (*InlineImage) inlineNode() {}

// Equation is a parsed math expression embedded in text flow.
type Equation struct {
	Nodes []EqNode
}

func (*Equation) inlineNode() {}

// EqNode is a node of an equation tree: literal text, a function applied to
// argument sub-trees, or a symbol code. The set of implementations is closed.
type EqNode interface {
	eqNode()
}

// EqText is literal text inside an equation.
type EqText struct {
	Text string
}

func (*EqText) eqNode() {}

// EqSymbol is a named symbol (Greek letter, operator, variable).
type EqSymbol struct {
	Code string
}

func (*EqSymbol) eqNode() {}

// EqFunction applies a function code to argument sub-trees. Argument order
// follows the source document's equation structure.
type EqFunction struct {
	Code string
	Args [][]EqNode
}

func (*EqFunction) eqNode() {}

// Paragraph is a block of inline content.
type Paragraph struct {
	Inlines []Inline
}

func (*Paragraph) Kind() BlockKind { return BlockParagraph }

// ListItem is a single list entry with its authored glyph kind. Consecutive
// items of the same kind are grouped into one HTML list by the renderer.
type ListItem struct {
	Inlines []Inline
	Glyph   GlyphKind
}

func (*ListItem) Kind() BlockKind { return BlockListItem }

// TableCell holds a block sequence; cells nest arbitrarily (a cell may itself
// contain tables).
type TableCell struct {
	Blocks []Block
}

// Table is a grid of cells.
type Table struct {
	Rows [][]TableCell
}

func (*Table) Kind() BlockKind { return BlockTable }

// Image is a block-level image (one not anchored inside a paragraph).
// Width and Height are in points; zero or negative means "not declared".
type Image struct {
	Data   []byte
	MIME   string
	Width  float64
	Height float64
}

func (*Image) Kind() BlockKind { return BlockImage }

// Document is the ordered block sequence delivered to the compiler. Block
// position (1-based) doubles as the "line" reported in diagnostics.
type Document struct {
	Blocks []Block
}

// PlainText returns the concatenated text of a block's runs. Images and
// equations contribute nothing; table cells are not descended into. This is
// what tag recognition matches against.
func PlainText(b Block) string {
	var inlines []Inline
	switch blk := b.(type) {
	case *Paragraph:
		inlines = blk.Inlines
	case *ListItem:
		inlines = blk.Inlines
	default:
		return ""
	}
	var sb strings.Builder
	for _, in := range inlines {
		if r, ok := in.(*TextRun); ok {
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}

// HasContent reports whether a block carries anything renderable: non-blank
// text, an image, an equation, or (for tables and block images) the block
// itself.
func HasContent(b Block) bool {
	var inlines []Inline
	switch blk := b.(type) {
	case *Paragraph:
		inlines = blk.Inlines
	case *ListItem:
		inlines = blk.Inlines
	default:
		return true
	}
	for _, in := range inlines {
		switch r := in.(type) {
		case *TextRun:
			if strings.TrimSpace(r.Text) != "" {
				return true
			}
		case *InlineImage, *Equation:
			return true
		}
	}
	return false
}

// Para builds a paragraph from a single unstyled text run. Test fixtures and
// the plain-text importer use it heavily.
func Para(text string) *Paragraph {
	return &Paragraph{Inlines: []Inline{&TextRun{Text: text}}}
}

// Item builds a list item from a single unstyled text run.
func Item(text string, glyph GlyphKind) *ListItem {
	return &ListItem{Inlines: []Inline{&TextRun{Text: text}}, Glyph: glyph}
}
