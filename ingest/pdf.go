package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

// PDFImporter extracts a PDF's text into paragraph and list-item blocks.
// PDFs carry no run styling we can recover, so the importer is text-only;
// it exists so quizzes authored with the tag markup in a PDF can still be
// compiled.
type PDFImporter struct{}

func (i *PDFImporter) SupportedFormats() []string { return []string{"pdf"} }

func (i *PDFImporter) Import(ctx context.Context, path string) (*doctree.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var lines []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages that fail to extract are skipped, not fatal.
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no extractable text in PDF %s", path)
	}
	return &doctree.Document{Blocks: blocksFromLines(lines)}, nil
}
