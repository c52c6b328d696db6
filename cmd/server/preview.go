package main

import (
	"fmt"
	"html"
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/export"
)

// previewHTML renders an archived quiz as a standalone page. Question and
// option content is renderer-produced HTML and embeds as-is; MathJax picks up
// the $...$ spans the equation translator emits. Image references are
// relative ("images/...") and resolve against the preview URL to the image
// endpoint.
func previewHTML(name string, doc *export.Document) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	sb.WriteString(html.EscapeString(name))
	sb.WriteString("</title>\n")
	sb.WriteString(`<script src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js" async></script>` + "\n")
	sb.WriteString("<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}" +
		".question{margin:2rem 0;padding:1rem;border:1px solid #ddd;border-radius:6px}" +
		".options li.correct{font-weight:bold}" +
		".descriptions{color:#555;border-top:1px dashed #ccc;margin-top:.75rem;padding-top:.5rem}" +
		"table{border-collapse:collapse}td{border:1px solid #bbb;padding:.25rem .5rem}</style>\n")
	sb.WriteString("</head>\n<body>\n<h1>")
	sb.WriteString(html.EscapeString(name))
	sb.WriteString("</h1>\n<p>")
	sb.WriteString(fmt.Sprintf("%s quiz, %d question(s), generated %s",
		html.EscapeString(doc.Metadata.QuizType),
		doc.Metadata.QuestionCount,
		html.EscapeString(doc.Metadata.GeneratedAt)))
	sb.WriteString("</p>\n")

	for i, q := range doc.Questions {
		sb.WriteString(`<div class="question">`)
		sb.WriteString(fmt.Sprintf("<h2>Question %d</h2>", i+1))
		sb.WriteString(q.Content)
		if len(q.Options) > 0 {
			sb.WriteString(`<ol class="options" type="a">`)
			for _, opt := range q.Options {
				if opt.IsCorrect {
					sb.WriteString(`<li class="correct">`)
				} else {
					sb.WriteString("<li>")
				}
				sb.WriteString(opt.Content)
				sb.WriteString("</li>")
			}
			sb.WriteString("</ol>")
		}
		if q.Descriptions != nil {
			sb.WriteString(`<div class="descriptions">`)
			sb.WriteString(*q.Descriptions)
			sb.WriteString("</div>")
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
