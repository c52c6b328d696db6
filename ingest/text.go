package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

// TextImporter reads plain-text files, one block per line. It exists for
// quick authoring and fixtures; styling, images, and equations are not
// expressible in flat text.
type TextImporter struct{}

func (i *TextImporter) SupportedFormats() []string { return []string{"txt", "text"} }

func (i *TextImporter) Import(ctx context.Context, path string) (*doctree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}
	return FromText(string(data)), nil
}

// FromText builds a document tree from raw text, one block per line.
func FromText(text string) *doctree.Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &doctree.Document{Blocks: blocksFromLines(strings.Split(text, "\n"))}
}
