package quizbuilder

import "errors"

var (
	// ErrUnsupportedFormat is returned for unrecognized document file formats.
	ErrUnsupportedFormat = errors.New("quizbuilder: unsupported document format")

	// ErrInvalidQuiz is returned when export is requested for a quiz that
	// failed validation.
	ErrInvalidQuiz = errors.New("quizbuilder: quiz failed validation")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("quizbuilder: invalid configuration")
)
