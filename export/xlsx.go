package export

import (
	"fmt"
	"html"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/quiz"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/render"
)

const answerKeySheet = "Answer Key"

// WriteAnswerKey writes an XLSX workbook summarizing the quiz for graders:
// one row per option with its question number, plain-text content, and a
// correct mark. Question content and option text are HTML-stripped since
// spreadsheets want plain text.
func WriteAnswerKey(w io.Writer, q *quiz.Quiz) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(answerKeySheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	headers := []any{"Question", "Content", "Option", "Option Text", "Correct"}
	if err := f.SetSheetRow(answerKeySheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	row := 2
	for _, question := range q.Questions {
		content := plainText(question.Content)
		if len(question.Options) == 0 {
			cells := []any{question.Num, content, "", "", ""}
			if err := f.SetSheetRow(answerKeySheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
			continue
		}
		for i, opt := range question.Options {
			mark := ""
			if opt.IsCorrect {
				mark = "X"
			}
			cells := []any{question.Num, content, i + 1, opt.ChoiceText, mark}
			if err := f.SetSheetRow(answerKeySheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func plainText(htmlFragment string) string {
	return render.CollapseSpace(html.UnescapeString(render.StripTags(htmlFragment)))
}
