// Package validate applies the quiz authoring rule set to a parsed model.
// It never fails: every check lands in a structured result of errors and
// warnings, and export is for the caller to refuse when errors exist.
package validate

import (
	"fmt"
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/quiz"
)

// Issue is a single finding, tied to the 1-based source block index it was
// observed at.
type Issue struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
}

// Result is the outcome of one validation pass. IsValid is true iff Errors is
// empty; warnings never affect validity.
type Result struct {
	IsValid  bool    `json:"is_valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Check validates the whole quiz model and returns the batched result.
func Check(q *quiz.Quiz) Result {
	var errs, warns []Issue

	if q == nil || !q.Type.Valid() || len(q.Questions) == 0 {
		errs = append(errs, Issue{Message: "quiz has no questions or an invalid quiz type"})
		return Result{IsValid: false, Errors: errs, Warnings: warns}
	}

	for i := range q.Questions {
		qe, qw := checkQuestion(q.Type, &q.Questions[i])
		errs = append(errs, qe...)
		warns = append(warns, qw...)
	}

	return Result{IsValid: len(errs) == 0, Errors: errs, Warnings: warns}
}

func checkQuestion(kind quiz.Type, q *quiz.Question) (errs, warns []Issue) {
	if strings.TrimSpace(q.Content) == "" {
		errs = append(errs, Issue{
			Message: fmt.Sprintf("question %d has no content", q.Num),
			Line:    q.Line,
		})
	}

	for _, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			warns = append(warns, Issue{
				Message: fmt.Sprintf("question %d has an option with empty text", q.Num),
				Line:    opt.Line,
			})
		}
	}

	if kind == quiz.TypeEssay {
		if q.HasOptionsTag || len(q.Options) > 0 {
			errs = append(errs, Issue{
				Message: fmt.Sprintf("OPTIONS is not allowed for ESSAY quizzes (question %d)", q.Num),
				Line:    q.Line,
			})
		}
		// The remaining rules are MCQ-only.
		return errs, warns
	}

	if !q.HasOptionsTag {
		errs = append(errs, Issue{
			Message: fmt.Sprintf("question %d is missing its [OPTIONS] section", q.Num),
			Line:    q.Line,
		})
		return errs, warns
	}

	if len(q.Options) < 2 {
		errs = append(errs, Issue{
			Message: fmt.Sprintf("question %d has %d option(s); at least 2 are required", q.Num, len(q.Options)),
			Line:    q.Line,
		})
	}

	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	switch {
	case correct == 0:
		errs = append(errs, Issue{
			Message: fmt.Sprintf("no correct answer marked in question %d", q.Num),
			Line:    q.Line,
		})
	case correct > 1:
		errs = append(errs, Issue{
			Message: fmt.Sprintf("Multiple correct answers found (%d) in question %d", correct, q.Num),
			Line:    q.Line,
		})
	}

	// Duplicate detection compares marker-stripped, whitespace-collapsed
	// plain text: case-sensitive and punctuation-sensitive on purpose.
	// The first occurrence of a value stands; later ones are flagged.
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if opt.ChoiceText == "" {
			continue
		}
		if seen[opt.ChoiceText] {
			errs = append(errs, Issue{
				Message: fmt.Sprintf("duplicate option %q in question %d", opt.ChoiceText, q.Num),
				Line:    opt.Line,
			})
			continue
		}
		seen[opt.ChoiceText] = true
	}
	return errs, warns
}
