package quizbuilder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/parser"
)

var testClock = WithClock(func() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
})

func sampleDoc() *doctree.Document {
	return &doctree.Document{Blocks: []doctree.Block{
		doctree.Para("[BEGIN#MCQ]"),
		doctree.Para("[QUESTION] Capital of Indonesia?"),
		doctree.Para("[OPTIONS]"),
		doctree.Item("<> Jakarta", doctree.GlyphBullet),
		doctree.Item("Bandung", doctree.GlyphBullet),
	}}
}

func TestCompile(t *testing.T) {
	res, err := Compile(sampleDoc(), testClock)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !res.Valid() {
		t.Fatalf("validation failed: %+v", res.Validation)
	}
	out := string(res.JSON)
	for _, want := range []string{
		`"generated_at": "2025-03-14T09:26:53Z"`,
		`"quiz_type": "MCQ"`,
		`"content": "<p>Capital of Indonesia?</p>"`,
		`"content": "Jakarta"`,
		`"is_correct": true`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %q:\n%s", want, out)
		}
	}
}

func TestCompileDeterministic(t *testing.T) {
	a, err := Compile(sampleDoc(), testClock)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(sampleDoc(), testClock)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.JSON, b.JSON) {
		t.Error("same document and clock produced different JSON")
	}
}

func TestCompileParseError(t *testing.T) {
	_, err := Compile(&doctree.Document{Blocks: []doctree.Block{
		doctree.Para("not a header"),
	}})
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *parser.ParseError", err)
	}
	if pe.Line != 1 {
		t.Errorf("Line = %d", pe.Line)
	}
}

func TestCompileInvalidQuiz(t *testing.T) {
	res, err := Compile(&doctree.Document{Blocks: []doctree.Block{
		doctree.Para("[BEGIN#ESSAY]"),
		doctree.Para("[QUESTION] Discuss."),
		doctree.Para("[OPTIONS]"),
		doctree.Item("<> yes", doctree.GlyphBullet),
	}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Valid() {
		t.Fatal("expected invalid result")
	}
	if res.Document != nil || res.JSON != nil {
		t.Error("export ran on an invalid quiz")
	}

	if err := res.WriteBundle(t.TempDir()); !errors.Is(err, ErrInvalidQuiz) {
		t.Errorf("WriteBundle: %v", err)
	}
	if err := res.WriteZip(&bytes.Buffer{}); !errors.Is(err, ErrInvalidQuiz) {
		t.Errorf("WriteZip: %v", err)
	}
	if err := res.WriteAnswerKey(&bytes.Buffer{}); !errors.Is(err, ErrInvalidQuiz) {
		t.Errorf("WriteAnswerKey: %v", err)
	}
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.txt")
	content := "[BEGIN#MCQ]\n[QUESTION] pick\n[OPTIONS]\n- <> a\n- b\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := CompileFile(context.Background(), path, testClock)
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	if !res.Valid() {
		t.Fatalf("validation failed: %+v", res.Validation)
	}
	if len(res.Quiz.Questions) != 1 || len(res.Quiz.Questions[0].Options) != 2 {
		t.Errorf("quiz = %+v", res.Quiz)
	}
}

func TestCompileFileUnsupportedFormat(t *testing.T) {
	_, err := CompileFile(context.Background(), "slides.pptx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestWriteBundle(t *testing.T) {
	res, err := Compile(sampleDoc(), testClock)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	if err := res.WriteBundle(dir); err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "quiz.json"))
	if err != nil {
		t.Fatalf("reading quiz.json: %v", err)
	}
	if !bytes.Equal(data, res.JSON) {
		t.Error("bundle quiz.json differs from Result.JSON")
	}
}
