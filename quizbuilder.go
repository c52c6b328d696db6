// Package quizbuilder compiles tag-markup quiz documents into validated,
// machine-readable quiz definitions. A document tree (obtained from DOCX,
// PDF, plain text, or delivered directly) is parsed by a state machine into
// the quiz model, checked against the authoring rules, and, when valid,
// serialized to canonical JSON plus extracted image assets.
//
// The pipeline is strictly sequential and synchronous: parse, then validate,
// then export. Parsing aborts on the first structural violation; validation
// always completes and reports everything it finds; export runs only on a
// valid model.
package quizbuilder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/export"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/ingest"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/parser"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/quiz"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/validate"
)

// Result is the outcome of one compile run. Document and JSON are populated
// only when validation passed.
type Result struct {
	Quiz       *quiz.Quiz
	Validation validate.Result
	Document   *export.Document
	JSON       []byte
}

// Option configures a compile run.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the timestamp source for the export metadata. Tests
// use it to make output fully deterministic.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Compile runs the full pipeline over an in-memory document tree. It returns
// a *parser.ParseError for structural violations; validation findings never
// produce an error and land in Result.Validation instead.
func Compile(doc *doctree.Document, opts ...Option) (*Result, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	model, err := parser.Parse(doc)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Quiz:       model,
		Validation: validate.Check(model),
	}
	if !res.Validation.IsValid {
		return res, nil
	}

	res.Document = export.Build(model, o.now())
	data, err := res.Document.JSON()
	if err != nil {
		return nil, fmt.Errorf("serializing quiz: %w", err)
	}
	res.JSON = data
	return res, nil
}

// CompileFile imports a document file through the format registry and
// compiles it.
func CompileFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	imp, err := ingest.NewRegistry().Get(ingest.FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	doc, err := imp.Import(ctx, path)
	if err != nil {
		return nil, err
	}
	return Compile(doc, opts...)
}

// Valid reports whether the compile produced an exportable quiz.
func (r *Result) Valid() bool {
	return r.Validation.IsValid
}

// Assets returns a copy of the extracted image mapping.
func (r *Result) Assets() map[string][]byte {
	return export.Assets(r.Quiz)
}

// WriteBundle writes quiz.json and images/ under dir. It refuses invalid
// results.
func (r *Result) WriteBundle(dir string) error {
	if !r.Valid() {
		return ErrInvalidQuiz
	}
	return export.WriteBundle(dir, r.Document, r.Assets())
}

// WriteZip streams the bundle as a ZIP container. It refuses invalid
// results.
func (r *Result) WriteZip(w io.Writer) error {
	if !r.Valid() {
		return ErrInvalidQuiz
	}
	return export.WriteZip(w, r.Document, r.Assets())
}

// WriteAnswerKey writes the grader workbook. It refuses invalid results.
func (r *Result) WriteAnswerKey(w io.Writer) error {
	if !r.Valid() {
		return ErrInvalidQuiz
	}
	return export.WriteAnswerKey(w, r.Quiz)
}
