package render

import (
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

// SectionBuilder accumulates block-level HTML for one section of a question
// under construction (its content or its descriptions). It tracks the
// currently open HTML list so consecutive list items of the same computed
// kind share one container; any non-list block closes the open list first.
type SectionBuilder struct {
	r          *Renderer
	questionID string
	parts      []string
	openList   string // open tag of the current list, "" when none
}

// NewSection returns an empty builder rendering through r for questionID.
func NewSection(r *Renderer, questionID string) *SectionBuilder {
	return &SectionBuilder{r: r, questionID: questionID}
}

// Add renders one block into the section.
func (b *SectionBuilder) Add(block doctree.Block) {
	switch blk := block.(type) {
	case *doctree.Paragraph:
		if !doctree.HasContent(blk) {
			return
		}
		b.CloseList()
		b.parts = append(b.parts, "<p>"+b.r.Inlines(blk.Inlines, b.questionID)+"</p>")
	case *doctree.ListItem:
		open := listOpenTag(blk.Glyph)
		if b.openList != open {
			b.CloseList()
			b.parts = append(b.parts, open)
			b.openList = open
		}
		b.parts = append(b.parts, "<li>"+b.r.Inlines(blk.Inlines, b.questionID)+"</li>")
	case *doctree.Table:
		b.CloseList()
		b.parts = append(b.parts, b.tableHTML(blk))
	case *doctree.Image:
		b.CloseList()
		b.parts = append(b.parts, b.r.imageTag(b.questionID, blk.MIME, blk.Data, blk.Width, blk.Height))
	}
}

// AddRawParagraph appends pre-rendered inline HTML as a paragraph, closing
// any open list. The parser uses it for trailing text on a question tag.
func (b *SectionBuilder) AddRawParagraph(inner string) {
	b.CloseList()
	b.parts = append(b.parts, "<p>"+inner+"</p>")
}

// CloseList closes the currently open list container, if any.
func (b *SectionBuilder) CloseList() {
	switch {
	case b.openList == "":
		return
	case b.openList == "<ul>":
		b.parts = append(b.parts, "</ul>")
	default:
		b.parts = append(b.parts, "</ol>")
	}
	b.openList = ""
}

// Empty reports whether nothing has been rendered into the section.
func (b *SectionBuilder) Empty() bool {
	return len(b.parts) == 0
}

// HTML closes any open list and returns the joined fragment.
func (b *SectionBuilder) HTML() string {
	b.CloseList()
	return strings.Join(b.parts, "")
}

// tableHTML renders a table recursively; each cell's block sequence goes
// through a fresh section builder, so cells support paragraphs, grouped
// lists, and nested tables.
func (b *SectionBuilder) tableHTML(t *doctree.Table) string {
	var sb strings.Builder
	sb.WriteString("<table>")
	for _, row := range t.Rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			cb := NewSection(b.r, b.questionID)
			for _, blk := range cell.Blocks {
				cb.Add(blk)
			}
			sb.WriteString("<td>")
			sb.WriteString(cb.HTML())
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
	return sb.String()
}

// listOpenTag computes the HTML list container for a glyph kind. Bullet
// variants group as unordered lists; numeric, lettered, and roman variants
// group as ordered lists with a type attribute.
func listOpenTag(g doctree.GlyphKind) string {
	switch g {
	case doctree.GlyphNumber:
		return `<ol type="1">`
	case doctree.GlyphAlpha:
		return `<ol type="a">`
	case doctree.GlyphAlphaUpper:
		return `<ol type="A">`
	case doctree.GlyphRoman:
		return `<ol type="i">`
	case doctree.GlyphRomanUpper:
		return `<ol type="I">`
	default:
		return "<ul>"
	}
}
