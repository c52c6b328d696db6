// Package render converts document tree nodes into HTML fragments: styled
// text runs, inline and block images, equations (as inline LaTeX), grouped
// lists, and nested tables. It owns the per-question image filename counters
// so repeated parses never interfere through shared state.
package render

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

// Marker is the two-character token that flags an option as the correct
// answer when it leads the option's text.
const Marker = "<>"

var (
	markerRe      = regexp.MustCompile(`^\s*` + regexp.QuoteMeta(Marker))
	markerStripRe = regexp.MustCompile(`^\s*` + regexp.QuoteMeta(Marker) + ` ?`)
	spaceRe       = regexp.MustCompile(`\s+`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)

	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// HasMarker reports whether raw option text leads with the correct-answer
// marker (optionally preceded by whitespace).
func HasMarker(text string) bool {
	return markerRe.MatchString(text)
}

// StripMarker removes one leading marker occurrence (plus at most one
// following space) from text. Markers appearing later in the text are never
// touched.
func StripMarker(text string) string {
	if loc := markerStripRe.FindStringIndex(text); loc != nil {
		return text[loc[1]:]
	}
	return text
}

// CollapseSpace trims and collapses all whitespace runs to single spaces.
func CollapseSpace(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// StripTags removes HTML tags from a rendered fragment, leaving escaped text.
// Used for plain-text comparisons and spreadsheet export.
func StripTags(html string) string {
	return tagRe.ReplaceAllString(html, "")
}

// EscapeText escapes the five HTML metacharacters in body text.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes a value for use inside a double-quoted HTML attribute.
// Quotes are escaped so a crafted link target cannot break out of the
// attribute.
func EscapeAttr(s string) string {
	return textEscaper.Replace(s)
}

// Images collects extracted image blobs and assigns deterministic
// per-question filenames: "{questionID}_img_{nnn}.{ext}", counter starting at
// 1 and incrementing across every image encountered while that question is
// being read.
type Images struct {
	files map[string][]byte
	next  map[string]int
}

// NewImages returns an empty collector.
func NewImages() *Images {
	return &Images{
		files: make(map[string][]byte),
		next:  make(map[string]int),
	}
}

// Register stores data under the next generated filename for questionID and
// returns that filename.
func (m *Images) Register(questionID, mime string, data []byte) string {
	n := m.next[questionID]
	if n == 0 {
		n = 1
	}
	m.next[questionID] = n + 1
	name := fmt.Sprintf("%s_img_%03d.%s", questionID, n, extensionFor(mime))
	m.files[name] = data
	return name
}

// Files returns the collected filename -> blob mapping.
func (m *Images) Files() map[string][]byte {
	return m.files
}

func extensionFor(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/gif":
		return "gif"
	default:
		// Unrecognized MIME types fall back to PNG.
		return "png"
	}
}

// Renderer turns inline and block nodes into HTML, registering any images it
// encounters with its collector.
type Renderer struct {
	images *Images
}

// New returns a renderer backed by the given image collector.
func New(images *Images) *Renderer {
	return &Renderer{images: images}
}

// Inlines renders a paragraph's or list item's inline sequence. Each run
// renders independently and outputs concatenate in order, so heterogeneous
// formatting resolves at run boundaries.
func (r *Renderer) Inlines(inlines []doctree.Inline, questionID string) string {
	var sb strings.Builder
	for _, in := range inlines {
		sb.WriteString(r.inline(in, questionID))
	}
	return sb.String()
}

// OptionInlines renders an option's inline sequence. When stripMarker is set
// the leading correct-answer marker is removed from the first text run only,
// once, before rendering.
func (r *Renderer) OptionInlines(inlines []doctree.Inline, questionID string, stripMarker bool) string {
	if stripMarker {
		for i, in := range inlines {
			run, ok := in.(*doctree.TextRun)
			if !ok {
				break
			}
			stripped := *run
			stripped.Text = StripMarker(run.Text)
			rest := inlines[i+1:]
			inlines = append([]doctree.Inline{&stripped}, rest...)
			break
		}
	}
	return r.Inlines(inlines, questionID)
}

func (r *Renderer) inline(in doctree.Inline, questionID string) string {
	switch n := in.(type) {
	case *doctree.TextRun:
		return renderTextRun(n)
	case *doctree.InlineImage:
		return r.imageTag(questionID, n.MIME, n.Data, n.Width, n.Height)
	case *doctree.Equation:
		return equationHTML(n)
	default:
		return ""
	}
}

// renderTextRun escapes the run's text and applies style wrapping in a fixed
// nesting order: super/subscript innermost, then strikethrough, underline,
// italic, bold, and the hyperlink anchor outermost. The order is independent
// of how the source document stored the attributes.
func renderTextRun(run *doctree.TextRun) string {
	if run.Text == "" {
		return ""
	}
	out := EscapeText(run.Text)
	s := run.Style
	switch {
	case s.Superscript:
		out = "<sup>" + out + "</sup>"
	case s.Subscript:
		out = "<sub>" + out + "</sub>"
	}
	if s.Strikethrough {
		out = "<s>" + out + "</s>"
	}
	if s.Underline {
		out = "<u>" + out + "</u>"
	}
	if s.Italic {
		out = "<i>" + out + "</i>"
	}
	if s.Bold {
		out = "<b>" + out + "</b>"
	}
	if s.LinkURL != "" {
		out = `<a href="` + EscapeAttr(s.LinkURL) + `">` + out + "</a>"
	}
	return out
}

// imageTag registers the blob and emits a responsive <img> reference.
// Declared width/height are emitted only when finite and positive, preserving
// author-set sizing.
func (r *Renderer) imageTag(questionID, mime string, data []byte, width, height float64) string {
	name := r.images.Register(questionID, mime, data)
	var sb strings.Builder
	sb.WriteString(`<img src="images/`)
	sb.WriteString(name)
	sb.WriteString(`" style="max-width:100%;height:auto"`)
	if isSizeValue(width) {
		sb.WriteString(` width="`)
		sb.WriteString(strconv.FormatFloat(width, 'f', -1, 64))
		sb.WriteString(`"`)
	}
	if isSizeValue(height) {
		sb.WriteString(` height="`)
		sb.WriteString(strconv.FormatFloat(height, 'f', -1, 64))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	return sb.String()
}

func isSizeValue(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
