// Package quiz holds the parsed quiz model: the immutable output of a parse
// pass, consumed read-only by validation and export.
package quiz

import "fmt"

// Type is the declared quiz kind, fixed once by the document header.
type Type string

const (
	TypeMCQ   Type = "MCQ"
	TypeEssay Type = "ESSAY"
)

// Valid reports whether t is one of the declared quiz kinds.
func (t Type) Valid() bool {
	return t == TypeMCQ || t == TypeEssay
}

// Option is a single answer choice of an MCQ question.
type Option struct {
	// ID is derived from the owning question ("q3_opt_2").
	ID string
	// Text is the rendered HTML with any correct-answer marker stripped.
	Text string
	// ChoiceText is the marker-stripped, whitespace-collapsed plain text,
	// used for duplicate detection independent of HTML formatting.
	ChoiceText string
	IsCorrect  bool
	// Line is the 1-based source block index, for diagnostics.
	Line int
}

// Question is one finalized quiz question.
type Question struct {
	// Num is the 1-based position in document order. It is dense and
	// strictly increasing regardless of the authored tag label.
	Num int
	// ID is "q" + Num.
	ID string
	// Label is the digits the author wrote in [QUESTION#<n>], empty for a
	// bare [QUESTION] tag. Kept separate from Num on purpose.
	Label string
	// Line is the 1-based source block index of the question tag.
	Line int
	// Content is the finalized HTML of the question body.
	Content string
	// Descriptions is the finalized HTML of the [DESCRIPTIONS] section,
	// nil when the section is absent or rendered empty.
	Descriptions *string
	// HasOptionsTag and HasDescriptionsTag record that the section tag
	// appeared; each may occur at most once per question.
	HasOptionsTag      bool
	HasDescriptionsTag bool
	Options            []Option
}

// Quiz is the whole parsed document.
type Quiz struct {
	Type      Type
	Questions []Question
	// Images maps generated filenames ("q1_img_001.png") to binary blobs
	// collected while questions were read.
	Images map[string][]byte
}

// QuestionID derives the stable question identifier from its position.
func QuestionID(num int) string {
	return fmt.Sprintf("q%d", num)
}

// OptionID derives the stable option identifier from its question and
// 1-based position.
func OptionID(questionID string, n int) string {
	return fmt.Sprintf("%s_opt_%d", questionID, n)
}
