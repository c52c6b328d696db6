// Package export serializes a validated quiz model to its canonical JSON
// shape plus the image asset manifest. Output is deterministic for a given
// model except for the generation timestamp. The exporter never re-validates
// and never mutates the model; calling it on an invalid model is a caller
// bug, not a recoverable condition.
package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/quiz"
)

// QuizFilename is the name of the JSON document inside a bundle.
const QuizFilename = "quiz.json"

// ImagesPrefix is the directory prefix image assets are stored under.
const ImagesPrefix = "images"

// Metadata is the bundle-level header of the exported document.
type Metadata struct {
	GeneratedAt   string `json:"generated_at"`
	QuizType      string `json:"quiz_type"`
	QuestionCount int    `json:"question_count"`
}

// Option is the exported form of one answer choice.
type Option struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is the exported form of one question.
type Question struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	Descriptions *string  `json:"descriptions"`
	Options      []Option `json:"options"`
}

// Document is the canonical quiz.json shape.
type Document struct {
	Metadata  Metadata   `json:"metadata"`
	Questions []Question `json:"questions"`
}

// Build converts a validated model into the export document. The timestamp
// is taken from now so callers (and tests) control the only nondeterministic
// field.
func Build(q *quiz.Quiz, now time.Time) *Document {
	doc := &Document{
		Metadata: Metadata{
			GeneratedAt:   now.UTC().Format(time.RFC3339),
			QuizType:      string(q.Type),
			QuestionCount: len(q.Questions),
		},
		Questions: make([]Question, 0, len(q.Questions)),
	}
	for _, src := range q.Questions {
		out := Question{
			ID:           src.ID,
			Content:      src.Content,
			Descriptions: src.Descriptions,
			Options:      make([]Option, 0, len(src.Options)),
		}
		for _, opt := range src.Options {
			out.Options = append(out.Options, Option{
				Content:   opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
		doc.Questions = append(doc.Questions, out)
	}
	return doc
}

// JSON serializes the document with stable formatting.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Assets copies the model's image mapping so downstream packaging can never
// reach back into the model.
func Assets(q *quiz.Quiz) map[string][]byte {
	out := make(map[string][]byte, len(q.Images))
	for name, data := range q.Images {
		blob := make([]byte, len(data))
		copy(blob, data)
		out[name] = blob
	}
	return out
}

// WriteBundle writes quiz.json plus images/ under dir, creating directories
// as needed.
func WriteBundle(dir string, doc *Document, images map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating bundle dir: %w", err)
	}
	data, err := doc.JSON()
	if err != nil {
		return fmt.Errorf("serializing quiz: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, QuizFilename), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", QuizFilename, err)
	}
	if len(images) == 0 {
		return nil
	}
	imgDir := filepath.Join(dir, ImagesPrefix)
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return fmt.Errorf("creating images dir: %w", err)
	}
	for _, name := range sortedNames(images) {
		if err := os.WriteFile(filepath.Join(imgDir, name), images[name], 0o644); err != nil {
			return fmt.Errorf("writing image %s: %w", name, err)
		}
	}
	return nil
}

// WriteZip streams the bundle as a ZIP container: quiz.json at the root and
// assets under images/. Entries are written in sorted order so the archive
// layout is stable.
func WriteZip(w io.Writer, doc *Document, images map[string][]byte) error {
	zw := zip.NewWriter(w)

	data, err := doc.JSON()
	if err != nil {
		return fmt.Errorf("serializing quiz: %w", err)
	}
	f, err := zw.Create(QuizFilename)
	if err != nil {
		return fmt.Errorf("creating zip entry: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", QuizFilename, err)
	}

	for _, name := range sortedNames(images) {
		f, err := zw.Create(ImagesPrefix + "/" + name)
		if err != nil {
			return fmt.Errorf("creating zip entry for %s: %w", name, err)
		}
		if _, err := f.Write(images[name]); err != nil {
			return fmt.Errorf("writing image %s: %w", name, err)
		}
	}
	return zw.Close()
}

func sortedNames(images map[string][]byte) []string {
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
