package parser

import (
	"regexp"
	"strings"
)

// The markup tag surface is fixed and case-sensitive. Tag recognition always
// runs against the block's trimmed plain text; tables and images never carry
// tags.
const (
	tagBeginPrefix    = "[BEGIN#"
	tagQuestionPrefix = "[QUESTION"
	tagOptions        = "[OPTIONS]"
	tagDescriptions   = "[DESCRIPTIONS]"
)

var (
	// headerRe matches the full header tag with no trailing content.
	headerRe = regexp.MustCompile(`^\[BEGIN#(MCQ|ESSAY)\]$`)

	// questionRe matches [QUESTION] or [QUESTION#<digits>], optionally
	// followed by inline text. Anything else starting with "[QUESTION"
	// is a malformed tag.
	questionRe = regexp.MustCompile(`^\[QUESTION(?:#(\d+))?\](?:\s*(.*))?$`)
)

func isHeaderCandidate(trimmed string) bool {
	return strings.HasPrefix(trimmed, tagBeginPrefix)
}

func isQuestionCandidate(trimmed string) bool {
	return strings.HasPrefix(trimmed, tagQuestionPrefix)
}
