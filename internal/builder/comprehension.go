package builder

import (
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// SubQuestionUpdate carries the sub-question fields to change. Nil fields
// are kept.
type SubQuestionUpdate struct {
	Question       *string
	Points         *float64
	CorrectAnswer  *bool
	CorrectAnswers []string
	CaseSensitive  *bool
	MaxLength      *int
}

const minSubQuestionOptions = 2

func comprehensionConfig(q *models.Question) (*models.ComprehensionConfig, error) {
	cfg, ok := q.Config.(*models.ComprehensionConfig)
	if !ok {
		return nil, ErrWrongQuestionType
	}
	return cfg, nil
}

func subQuestion(q *models.Question, id string) (*models.SubQuestion, error) {
	cfg, err := comprehensionConfig(q)
	if err != nil {
		return nil, err
	}
	sub, ok := cfg.SubQuestion(id)
	if !ok {
		return nil, ErrSubQuestionNotFound
	}
	return sub, nil
}

func numberedOptions(n int) []models.Option {
	options := make([]models.Option, n)
	for i := range options {
		options[i] = models.Option{ID: fmt.Sprint(i + 1), Text: fmt.Sprintf("Option %d", i+1)}
	}
	return options
}

// AddSubQuestion appends a one point sub-question of type t seeded the way
// the editor seeds it.
func AddSubQuestion(q *models.Question, t models.SubQuestionType) (*models.SubQuestion, error) {
	cfg, err := comprehensionConfig(q)
	if err != nil {
		return nil, err
	}
	t = t.Normalize()
	if !models.IsKnownSubQuestionType(t) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubQuestionType, t)
	}

	sub := models.SubQuestion{
		ID:       newID("subq"),
		Type:     t,
		Question: models.DefaultSubQuestionTitle,
		Points:   1,
	}
	switch t {
	case models.SubQuestionMCQ:
		sub.Options = numberedOptions(4)
	case models.SubQuestionMCA:
		sub.Options = numberedOptions(minSubQuestionOptions)
	case models.SubQuestionTrueFalse:
		sub.CorrectAnswer = true
	case models.SubQuestionShortAnswer:
		sub.CorrectAnswers = []string{"Sample answer"}
		sub.MaxLength = models.DefaultShortAnswerMaxLength
	}
	cfg.SubQuestions = append(cfg.SubQuestions, sub)
	return &cfg.SubQuestions[len(cfg.SubQuestions)-1], nil
}

func UpdateSubQuestion(q *models.Question, id string, update SubQuestionUpdate) error {
	sub, err := subQuestion(q, id)
	if err != nil {
		return err
	}
	if update.Question != nil {
		sub.Question = *update.Question
	}
	if update.Points != nil {
		sub.Points = *update.Points
	}
	if update.CorrectAnswer != nil {
		if sub.Type != models.SubQuestionTrueFalse {
			return ErrWrongQuestionType
		}
		sub.CorrectAnswer = *update.CorrectAnswer
	}
	if update.CorrectAnswers != nil || update.CaseSensitive != nil || update.MaxLength != nil {
		if sub.Type != models.SubQuestionShortAnswer {
			return ErrWrongQuestionType
		}
	}
	if update.CorrectAnswers != nil {
		sub.CorrectAnswers = append([]string(nil), update.CorrectAnswers...)
	}
	if update.CaseSensitive != nil {
		sub.CaseSensitive = *update.CaseSensitive
	}
	if update.MaxLength != nil {
		sub.MaxLength = *update.MaxLength
	}
	return nil
}

// RemoveSubQuestion deletes a sub-question. The last one cannot be removed.
func RemoveSubQuestion(q *models.Question, id string) error {
	cfg, err := comprehensionConfig(q)
	if err != nil {
		return err
	}
	for i, sub := range cfg.SubQuestions {
		if sub.ID != id {
			continue
		}
		if len(cfg.SubQuestions) == 1 {
			return ErrMinimumEntries
		}
		cfg.SubQuestions = append(cfg.SubQuestions[:i], cfg.SubQuestions[i+1:]...)
		return nil
	}
	return ErrSubQuestionNotFound
}

// ChangeSubQuestionType switches a sub-question to t and resets its answer
// key: choice types get two fresh options, true-false is keyed true and
// short-answer gets one empty accepted answer.
func ChangeSubQuestionType(q *models.Question, id string, t models.SubQuestionType) error {
	sub, err := subQuestion(q, id)
	if err != nil {
		return err
	}
	t = t.Normalize()
	if !models.IsKnownSubQuestionType(t) {
		return fmt.Errorf("%w: %q", ErrUnknownSubQuestionType, t)
	}

	sub.Type = t
	sub.Options = nil
	sub.CorrectAnswer = nil
	sub.CorrectAnswers = nil
	sub.CaseSensitive = false
	sub.MaxLength = 0
	switch t {
	case models.SubQuestionMCQ, models.SubQuestionMCA:
		sub.Options = numberedOptions(minSubQuestionOptions)
	case models.SubQuestionTrueFalse:
		sub.CorrectAnswer = true
	case models.SubQuestionShortAnswer:
		sub.CorrectAnswers = []string{""}
		sub.MaxLength = models.DefaultShortAnswerMaxLength
	}
	return nil
}

// AddSubQuestionOption appends an option to a choice sub-question.
func AddSubQuestionOption(q *models.Question, subID, text string) (*models.Option, error) {
	sub, err := subQuestion(q, subID)
	if err != nil {
		return nil, err
	}
	if sub.Type != models.SubQuestionMCQ && sub.Type != models.SubQuestionMCA {
		return nil, ErrWrongQuestionType
	}
	return appendOption(&sub.Options, text), nil
}

func UpdateSubQuestionOption(q *models.Question, subID, optionID string, update OptionUpdate) error {
	sub, err := subQuestion(q, subID)
	if err != nil {
		return err
	}
	return applyOptionUpdate(sub.Options, optionID, update)
}

// RemoveSubQuestionOption deletes an option while keeping at least two.
func RemoveSubQuestionOption(q *models.Question, subID, optionID string) error {
	sub, err := subQuestion(q, subID)
	if err != nil {
		return err
	}
	return removeOption(&sub.Options, optionID, minSubQuestionOptions)
}
