package services

import (
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/builder"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// QuestionEditAction names one builder edit on the parts of a question
type QuestionEditAction string

const (
	EditAddOption    QuestionEditAction = "add_option"
	EditUpdateOption QuestionEditAction = "update_option"
	EditRemoveOption QuestionEditAction = "remove_option"

	EditAddCategory    QuestionEditAction = "add_category"
	EditUpdateCategory QuestionEditAction = "update_category"
	EditRemoveCategory QuestionEditAction = "remove_category"
	EditAddItem        QuestionEditAction = "add_item"
	EditUpdateItem     QuestionEditAction = "update_item"
	EditRemoveItem     QuestionEditAction = "remove_item"

	EditSetClozeText QuestionEditAction = "set_cloze_text"
	EditUpdateBlank  QuestionEditAction = "update_blank"

	EditAddSubQuestion          QuestionEditAction = "add_sub_question"
	EditUpdateSubQuestion       QuestionEditAction = "update_sub_question"
	EditRemoveSubQuestion       QuestionEditAction = "remove_sub_question"
	EditChangeSubQuestionType   QuestionEditAction = "change_sub_question_type"
	EditAddSubQuestionOption    QuestionEditAction = "add_sub_question_option"
	EditUpdateSubQuestionOption QuestionEditAction = "update_sub_question_option"
	EditRemoveSubQuestionOption QuestionEditAction = "remove_sub_question_option"
)

// QuestionEditRequest is one edit on a question's config. TargetID names
// the option, category, item, blank or sub-question the action works on;
// SubQuestionID names the sub-question owning a sub-question option.
// Fields an action does not read are ignored.
type QuestionEditRequest struct {
	Action        QuestionEditAction `json:"action" validate:"required"`
	TargetID      string             `json:"targetId"`
	SubQuestionID string             `json:"subQuestionId"`

	Text            *string                 `json:"text"`
	Label           *string                 `json:"label"`
	Color           *string                 `json:"color"`
	IsCorrect       *bool                   `json:"isCorrect"`
	CorrectCategory *string                 `json:"correctCategory"`
	CorrectAnswer   *bool                   `json:"correctAnswer"`
	CorrectAnswers  []string                `json:"correctAnswers"`
	CaseSensitive   *bool                   `json:"caseSensitive"`
	Points          *float64                `json:"points" validate:"omitempty,gte=0"`
	MaxLength       *int                    `json:"maxLength" validate:"omitempty,gte=0"`
	SubQuestionType *models.SubQuestionType `json:"subQuestionType"`
}

func (r *QuestionEditRequest) text() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}

func (r *QuestionEditRequest) optionUpdate() builder.OptionUpdate {
	return builder.OptionUpdate{Text: r.Text, IsCorrect: r.IsCorrect}
}

func (r *QuestionEditRequest) subQuestionType() (models.SubQuestionType, error) {
	if r.SubQuestionType == nil {
		return "", fmt.Errorf("%w: subQuestionType is required for %s", ErrValidationFailed, r.Action)
	}
	return *r.SubQuestionType, nil
}

// applyQuestionEdit runs the builder operation named by req.Action on q
func applyQuestionEdit(q *models.Question, req *QuestionEditRequest) error {
	var err error
	switch req.Action {
	case EditAddOption:
		_, err = builder.AddOption(q, req.text())
	case EditUpdateOption:
		err = builder.UpdateOption(q, req.TargetID, req.optionUpdate())
	case EditRemoveOption:
		err = builder.RemoveOption(q, req.TargetID)

	case EditAddCategory:
		label := ""
		if req.Label != nil {
			label = *req.Label
		}
		_, err = builder.AddCategory(q, label)
	case EditUpdateCategory:
		err = builder.UpdateCategory(q, req.TargetID, builder.CategoryUpdate{Label: req.Label, Color: req.Color})
	case EditRemoveCategory:
		err = builder.RemoveCategory(q, req.TargetID)
	case EditAddItem:
		_, err = builder.AddItem(q, req.text())
	case EditUpdateItem:
		err = builder.UpdateItem(q, req.TargetID, builder.ItemUpdate{Text: req.Text, CorrectCategory: req.CorrectCategory})
	case EditRemoveItem:
		err = builder.RemoveItem(q, req.TargetID)

	case EditSetClozeText:
		if req.Text == nil {
			return fmt.Errorf("%w: text is required for %s", ErrValidationFailed, req.Action)
		}
		err = builder.SetClozeText(q, *req.Text)
	case EditUpdateBlank:
		err = builder.UpdateBlank(q, req.TargetID, builder.BlankUpdate{
			CorrectAnswers: req.CorrectAnswers,
			CaseSensitive:  req.CaseSensitive,
		})

	case EditAddSubQuestion:
		t, typeErr := req.subQuestionType()
		if typeErr != nil {
			return typeErr
		}
		_, err = builder.AddSubQuestion(q, t)
	case EditUpdateSubQuestion:
		err = builder.UpdateSubQuestion(q, req.TargetID, builder.SubQuestionUpdate{
			Question:       req.Text,
			Points:         req.Points,
			CorrectAnswer:  req.CorrectAnswer,
			CorrectAnswers: req.CorrectAnswers,
			CaseSensitive:  req.CaseSensitive,
			MaxLength:      req.MaxLength,
		})
	case EditRemoveSubQuestion:
		err = builder.RemoveSubQuestion(q, req.TargetID)
	case EditChangeSubQuestionType:
		t, typeErr := req.subQuestionType()
		if typeErr != nil {
			return typeErr
		}
		err = builder.ChangeSubQuestionType(q, req.TargetID, t)
	case EditAddSubQuestionOption:
		_, err = builder.AddSubQuestionOption(q, req.SubQuestionID, req.text())
	case EditUpdateSubQuestionOption:
		err = builder.UpdateSubQuestionOption(q, req.SubQuestionID, req.TargetID, req.optionUpdate())
	case EditRemoveSubQuestionOption:
		err = builder.RemoveSubQuestionOption(q, req.SubQuestionID, req.TargetID)

	default:
		return fmt.Errorf("%w: unknown edit action %q", ErrValidationFailed, req.Action)
	}
	return err
}
