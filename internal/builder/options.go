package builder

import (
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// OptionUpdate carries the option fields to change. Nil fields are kept.
type OptionUpdate struct {
	Text      *string
	IsCorrect *bool
}

func choiceOptions(q *models.Question) (*[]models.Option, error) {
	switch cfg := q.Config.(type) {
	case *models.SingleChoiceConfig:
		return &cfg.Options, nil
	case *models.MultiChoiceConfig:
		return &cfg.Options, nil
	}
	return nil, ErrWrongQuestionType
}

// AddOption appends an option to an mcq or mca question. An empty text
// becomes "Option <n>".
func AddOption(q *models.Question, text string) (*models.Option, error) {
	options, err := choiceOptions(q)
	if err != nil {
		return nil, err
	}
	return appendOption(options, text), nil
}

func appendOption(options *[]models.Option, text string) *models.Option {
	if text == "" {
		text = fmt.Sprintf("Option %d", len(*options)+1)
	}
	*options = append(*options, models.Option{ID: newID("opt"), Text: text})
	return &(*options)[len(*options)-1]
}

// UpdateOption changes one option of an mcq or mca question.
func UpdateOption(q *models.Question, optionID string, update OptionUpdate) error {
	options, err := choiceOptions(q)
	if err != nil {
		return err
	}
	return applyOptionUpdate(*options, optionID, update)
}

func applyOptionUpdate(options []models.Option, optionID string, update OptionUpdate) error {
	for i := range options {
		if options[i].ID != optionID {
			continue
		}
		if update.Text != nil {
			options[i].Text = *update.Text
		}
		if update.IsCorrect != nil {
			options[i].IsCorrect = *update.IsCorrect
		}
		return nil
	}
	return ErrOptionNotFound
}

// RemoveOption deletes an option. The last option cannot be removed.
func RemoveOption(q *models.Question, optionID string) error {
	options, err := choiceOptions(q)
	if err != nil {
		return err
	}
	return removeOption(options, optionID, 1)
}

func removeOption(options *[]models.Option, optionID string, minimum int) error {
	idx := -1
	for i, o := range *options {
		if o.ID == optionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrOptionNotFound
	}
	if len(*options) <= minimum {
		return ErrMinimumEntries
	}
	*options = append((*options)[:idx], (*options)[idx+1:]...)
	return nil
}
