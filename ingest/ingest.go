// Package ingest adapts real document files into the abstract document tree
// the compiler consumes. Each importer handles one file format; a registry
// maps formats to importers.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

// Importer reads a document file into a document tree.
type Importer interface {
	Import(ctx context.Context, path string) (*doctree.Document, error)
	SupportedFormats() []string
}

// Registry maps file formats to importers.
type Registry struct {
	importers map[string]Importer
}

// NewRegistry returns a registry with the built-in importers registered.
func NewRegistry() *Registry {
	r := &Registry{importers: make(map[string]Importer)}
	for _, imp := range []Importer{&DOCXImporter{}, &PDFImporter{}, &TextImporter{}} {
		for _, f := range imp.SupportedFormats() {
			r.importers[f] = imp
		}
	}
	return r
}

// Get returns the importer for a format.
func (r *Registry) Get(format string) (Importer, error) {
	imp, ok := r.importers[format]
	if !ok {
		return nil, fmt.Errorf("no importer for format: %s", format)
	}
	return imp, nil
}

// Register adds or replaces the importer for a format.
func (r *Registry) Register(format string, imp Importer) {
	r.importers[format] = imp
}

// FormatOf derives the registry format key from a file path.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

var (
	bulletLineRe = regexp.MustCompile(`^[-*]\s+`)
	numberLineRe = regexp.MustCompile(`^\d+[.)]\s+`)
	letterLineRe = regexp.MustCompile(`^[a-z][.)]\s+`)
)

// blocksFromLines converts plain text lines into blocks, recognizing common
// list prefixes so options can be authored in flat text: "-"/"*" become
// bullet items, "1." numbered items, "a." lettered items. Blank lines keep
// their block slot so diagnostics line up with the source.
func blocksFromLines(lines []string) []doctree.Block {
	blocks := make([]doctree.Block, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case bulletLineRe.MatchString(trimmed):
			blocks = append(blocks, doctree.Item(bulletLineRe.ReplaceAllString(trimmed, ""), doctree.GlyphBullet))
		case numberLineRe.MatchString(trimmed):
			blocks = append(blocks, doctree.Item(numberLineRe.ReplaceAllString(trimmed, ""), doctree.GlyphNumber))
		case letterLineRe.MatchString(trimmed):
			blocks = append(blocks, doctree.Item(letterLineRe.ReplaceAllString(trimmed, ""), doctree.GlyphAlpha))
		default:
			blocks = append(blocks, doctree.Para(trimmed))
		}
	}
	return blocks
}
