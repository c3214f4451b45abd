// Package builder holds the editing operations a form author applies to a
// question: seeding a new question, duplicating it and editing the parts
// of each config variant. Operations mutate the question in place and
// never touch other questions.
package builder

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/google/uuid"
)

var (
	ErrWrongQuestionType   = errors.New("operation does not apply to this question type")
	ErrOptionNotFound      = errors.New("option not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrBlankNotFound       = errors.New("blank not found")
	ErrSubQuestionNotFound = errors.New("sub-question not found")
	ErrMinimumEntries      = errors.New("cannot remove the last remaining entries")
	ErrInvalidOrder        = errors.New("order must list every question exactly once")

	ErrUnknownSubQuestionType = errors.New("unknown sub-question type")
)

// NewQuestionID returns a fresh question id.
func NewQuestionID() string {
	return "q_" + uuid.NewString()
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewQuestion seeds a required, one point question of type t at position
// order with the default config of its type.
func NewQuestion(t models.QuestionType, order int) (*models.Question, error) {
	cfg, err := models.DefaultConfig(t)
	if err != nil {
		return nil, fmt.Errorf("new %s question: %w", t, err)
	}
	return &models.Question{
		ID:       NewQuestionID(),
		Type:     t,
		Title:    fmt.Sprintf("Question %d", order+1),
		Required: true,
		Order:    order,
		Config:   cfg,
		Scoring:  models.Scoring{Points: models.DefaultPoints},
	}, nil
}

// Duplicate copies q under a fresh id with " (Copy)" appended to the title.
func Duplicate(q *models.Question) (*models.Question, error) {
	clone, err := WithFreshID(q)
	if err != nil {
		return nil, err
	}
	clone.Title = q.Title + " (Copy)"
	return clone, nil
}

// WithFreshID deep copies q and gives the copy a new id.
func WithFreshID(q *models.Question) (*models.Question, error) {
	clone, err := q.Clone()
	if err != nil {
		return nil, fmt.Errorf("copy question %q: %w", q.ID, err)
	}
	clone.ID = NewQuestionID()
	return clone, nil
}

// ChangeType switches q to type t and replaces its config with the default
// of t. The previous config is discarded even when t equals q.Type.
func ChangeType(q *models.Question, t models.QuestionType) error {
	cfg, err := models.DefaultConfig(t)
	if err != nil {
		return err
	}
	q.Type = t
	q.Config = cfg
	return nil
}

// Reorder returns questions arranged as ids with Order rewritten to match.
func Reorder(questions []models.Question, ids []string) ([]models.Question, error) {
	if len(ids) != len(questions) {
		return nil, ErrInvalidOrder
	}
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	out := make([]models.Question, 0, len(ids))
	for i, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown or repeated id %q", ErrInvalidOrder, id)
		}
		delete(byID, id)
		q.Order = i
		out = append(out, q)
	}
	return out, nil
}

// Remove drops the question with id and renumbers the rest.
func Remove(questions []models.Question, id string) ([]models.Question, bool) {
	out := make([]models.Question, 0, len(questions))
	found := false
	for _, q := range questions {
		if q.ID == id {
			found = true
			continue
		}
		q.Order = len(out)
		out = append(out, q)
	}
	return out, found
}
