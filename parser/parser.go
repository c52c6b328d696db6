// Package parser walks a document tree once, in document order, and builds
// the quiz model. A small state machine routes each block: the header fixes
// the quiz kind, question tags open questions, section tags switch between
// content, options, and descriptions. Every structural violation aborts the
// whole parse with a descriptive error naming the offending line; there is no
// partial result.
package parser

import (
	"fmt"
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/quiz"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/render"
)

type state int

const (
	stateWaiting state = iota
	stateReadingQuestion
	stateReadingOptions
	stateReadingDescriptions
)

// ParseError is a fatal structural error. Line is the 1-based block index of
// the offending construct.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func errAt(line int, format string, args ...any) error {
	return &ParseError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// questionBuilder accumulates one question under construction. The finalized
// immutable quiz.Question is produced only when the question closes.
type questionBuilder struct {
	num     int
	id      string
	label   string
	line    int
	content *render.SectionBuilder
	desc    *render.SectionBuilder
	hasOpt  bool
	hasDesc bool
	options []quiz.Option
}

type docParser struct {
	renderer  *render.Renderer
	images    *render.Images
	quizType  quiz.Type
	state     state
	cur       *questionBuilder
	questions []quiz.Question
}

// Parse compiles a document tree into a quiz model. It returns a *ParseError
// on any structural violation.
func Parse(doc *doctree.Document) (*quiz.Quiz, error) {
	images := render.NewImages()
	p := &docParser{
		renderer: render.New(images),
		images:   images,
		state:    stateWaiting,
	}

	headerIdx, err := p.scanHeader(doc)
	if err != nil {
		return nil, err
	}

	for i := headerIdx + 1; i < len(doc.Blocks); i++ {
		if err := p.dispatch(doc.Blocks[i], i+1); err != nil {
			return nil, err
		}
	}
	p.closeQuestion()

	return &quiz.Quiz{
		Type:      p.quizType,
		Questions: p.questions,
		Images:    images.Files(),
	}, nil
}

// scanHeader finds and checks the header tag: the first block with content
// must be a paragraph or list item whose text is exactly [BEGIN#MCQ] or
// [BEGIN#ESSAY].
func (p *docParser) scanHeader(doc *doctree.Document) (int, error) {
	for i, b := range doc.Blocks {
		line := i + 1
		switch b.(type) {
		case *doctree.Paragraph, *doctree.ListItem:
			if !doctree.HasContent(b) {
				continue
			}
			trimmed := strings.TrimSpace(doctree.PlainText(b))
			m := headerRe.FindStringSubmatch(trimmed)
			if m == nil {
				return 0, errAt(line, "expected [BEGIN#MCQ] or [BEGIN#ESSAY] header, found %q", trimmed)
			}
			p.quizType = quiz.Type(m[1])
			return i, nil
		default:
			return 0, errAt(line, "expected [BEGIN#MCQ] or [BEGIN#ESSAY] header before any %s", b.Kind())
		}
	}
	return 0, errAt(len(doc.Blocks), "no [BEGIN#MCQ] or [BEGIN#ESSAY] header found")
}

func (p *docParser) dispatch(b doctree.Block, line int) error {
	switch blk := b.(type) {
	case *doctree.Paragraph:
		return p.dispatchText(blk, blk.Inlines, line)
	case *doctree.ListItem:
		return p.dispatchText(blk, blk.Inlines, line)
	default:
		return p.addContent(b, line)
	}
}

func (p *docParser) dispatchText(b doctree.Block, inlines []doctree.Inline, line int) error {
	trimmed := strings.TrimSpace(doctree.PlainText(b))

	switch {
	case isHeaderCandidate(trimmed):
		return errAt(line, "duplicate [BEGIN#...] header; a document declares its quiz kind exactly once")

	case isQuestionCandidate(trimmed):
		m := questionRe.FindStringSubmatch(trimmed)
		if m == nil {
			return errAt(line, "malformed question tag %q; use [QUESTION] or [QUESTION#<digits>]", trimmed)
		}
		p.closeQuestion()
		p.openQuestion(m[1], line)
		if rest := inlineTagRemainder(inlines); len(rest) > 0 {
			para := &doctree.Paragraph{Inlines: rest}
			if doctree.HasContent(para) {
				p.cur.content.Add(para)
			}
		}
		return nil

	case trimmed == tagOptions:
		if p.cur == nil {
			return errAt(line, "[OPTIONS] tag outside a question")
		}
		if p.cur.hasOpt {
			return errAt(line, "duplicate [OPTIONS] tag in question %d", p.cur.num)
		}
		p.cur.hasOpt = true
		p.state = stateReadingOptions
		return nil

	case trimmed == tagDescriptions:
		if p.cur == nil {
			return errAt(line, "[DESCRIPTIONS] tag outside a question")
		}
		if p.cur.hasDesc {
			return errAt(line, "duplicate [DESCRIPTIONS] tag in question %d", p.cur.num)
		}
		if p.quizType == quiz.TypeMCQ && p.state != stateReadingOptions {
			return errAt(line, "[DESCRIPTIONS] must follow [OPTIONS] in an MCQ question")
		}
		if p.quizType == quiz.TypeEssay && p.state != stateReadingQuestion {
			return errAt(line, "[DESCRIPTIONS] must follow the question content in an ESSAY question")
		}
		p.cur.hasDesc = true
		p.state = stateReadingDescriptions
		return nil

	default:
		return p.addContent(b, line)
	}
}

// addContent routes a non-tag block by the current state.
func (p *docParser) addContent(b doctree.Block, line int) error {
	switch p.state {
	case stateWaiting:
		if doctree.HasContent(b) {
			return errAt(line, "content before the first [QUESTION] tag")
		}
		return nil

	case stateReadingQuestion:
		p.cur.content.Add(b)
		return nil

	case stateReadingDescriptions:
		p.cur.desc.Add(b)
		return nil

	case stateReadingOptions:
		item, ok := b.(*doctree.ListItem)
		if !ok {
			if !doctree.HasContent(b) {
				return nil
			}
			return errAt(line, "only list items may appear in an [OPTIONS] section")
		}
		p.addOption(item, line)
		return nil
	}
	return nil
}

func (p *docParser) addOption(item *doctree.ListItem, line int) {
	raw := doctree.PlainText(item)
	correct := render.HasMarker(raw)
	text := strings.TrimSpace(p.renderer.OptionInlines(item.Inlines, p.cur.id, correct))
	p.cur.options = append(p.cur.options, quiz.Option{
		ID:         quiz.OptionID(p.cur.id, len(p.cur.options)+1),
		Text:       text,
		ChoiceText: render.CollapseSpace(render.StripMarker(raw)),
		IsCorrect:  correct,
		Line:       line,
	})
}

// openQuestion starts a new question. Its number is its document position
// (one past the count already closed), never the authored label.
func (p *docParser) openQuestion(label string, line int) {
	num := len(p.questions) + 1
	id := quiz.QuestionID(num)
	p.cur = &questionBuilder{
		num:     num,
		id:      id,
		label:   label,
		line:    line,
		content: render.NewSection(p.renderer, id),
		desc:    render.NewSection(p.renderer, id),
	}
	p.state = stateReadingQuestion
}

// closeQuestion finalizes the open question, closing any open lists in its
// buffers and appending the immutable record to the model.
func (p *docParser) closeQuestion() {
	if p.cur == nil {
		return
	}
	q := quiz.Question{
		Num:                p.cur.num,
		ID:                 p.cur.id,
		Label:              p.cur.label,
		Line:               p.cur.line,
		Content:            p.cur.content.HTML(),
		HasOptionsTag:      p.cur.hasOpt,
		HasDescriptionsTag: p.cur.hasDesc,
		Options:            p.cur.options,
	}
	if !p.cur.desc.Empty() {
		if s := p.cur.desc.HTML(); s != "" {
			q.Descriptions = &s
		}
	}
	p.questions = append(p.questions, q)
	p.cur = nil
	p.state = stateWaiting
}

// inlineTagRemainder returns the inline nodes that follow the question tag's
// closing bracket, with leading whitespace dropped, preserving run styling of
// any trailing text.
func inlineTagRemainder(inlines []doctree.Inline) []doctree.Inline {
	raw := plainOf(inlines)
	end := strings.Index(raw, "]")
	if end < 0 {
		return nil
	}
	drop := end + 1
	for drop < len(raw) && (raw[drop] == ' ' || raw[drop] == '\t') {
		drop++
	}

	var out []doctree.Inline
	remaining := drop
	for _, in := range inlines {
		run, ok := in.(*doctree.TextRun)
		if !ok {
			out = append(out, in)
			continue
		}
		if remaining >= len(run.Text) {
			remaining -= len(run.Text)
			continue
		}
		if remaining > 0 {
			clipped := *run
			clipped.Text = run.Text[remaining:]
			remaining = 0
			out = append(out, &clipped)
			continue
		}
		out = append(out, in)
	}
	return out
}

func plainOf(inlines []doctree.Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		if r, ok := in.(*doctree.TextRun); ok {
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}
