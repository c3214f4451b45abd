package builder

import (
	"strings"
	"testing"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestion(t *testing.T, qt models.QuestionType) *models.Question {
	t.Helper()
	q, err := NewQuestion(qt, 0)
	require.NoError(t, err)
	return q
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestNewQuestion(t *testing.T) {
	for _, qt := range models.AllQuestionTypes {
		t.Run(string(qt), func(t *testing.T) {
			q, err := NewQuestion(qt, 2)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(q.ID, "q_"))
			assert.Equal(t, "Question 3", q.Title)
			assert.Equal(t, 2, q.Order)
			assert.True(t, q.Required)
			assert.Equal(t, 1.0, q.MaxScore())
			assert.NoError(t, validator.ValidateQuestion(0, q))
		})
	}

	_, err := NewQuestion("matrix", 0)
	assert.ErrorIs(t, err, models.ErrUnknownQuestionType)
}

func TestDuplicate(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeCategorize)
	q.Title = "Sort animals"

	dup, err := Duplicate(q)
	require.NoError(t, err)

	assert.NotEqual(t, q.ID, dup.ID)
	assert.Equal(t, "Sort animals (Copy)", dup.Title)
	assert.Equal(t, q.Config, dup.Config)

	_, err = AddCategory(dup, "")
	require.NoError(t, err)
	assert.Len(t, q.Config.(*models.CategorizeConfig).Categories, 2, "copy shares no state with the original")
}

func TestChangeType(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeMCQ)

	require.NoError(t, ChangeType(q, models.QuestionTypeCloze))
	assert.Equal(t, models.QuestionTypeCloze, q.Type)
	assert.IsType(t, &models.ClozeConfig{}, q.Config)

	assert.Error(t, ChangeType(q, "matrix"))
	assert.Equal(t, models.QuestionTypeCloze, q.Type)
}

func TestReorder(t *testing.T) {
	questions := []models.Question{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out, err := Reorder(questions, []string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{out[0].Order, out[1].Order, out[2].Order})

	_, err = Reorder(questions, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = Reorder(questions, []string{"a", "a", "b"})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestRemove(t *testing.T) {
	questions := []models.Question{{ID: "a", Order: 0}, {ID: "b", Order: 1}, {ID: "c", Order: 2}}

	out, found := Remove(questions, "b")
	assert.True(t, found)
	require.Len(t, out, 2)
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, 1, out[1].Order)

	_, found = Remove(questions, "zzz")
	assert.False(t, found)
}

func TestOptions(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeMCA)

	opt, err := AddOption(q, "")
	require.NoError(t, err)
	assert.Equal(t, "Option 3", opt.Text)
	assert.True(t, strings.HasPrefix(opt.ID, "opt-"))
	optID := opt.ID

	require.NoError(t, UpdateOption(q, optID, OptionUpdate{Text: strPtr("Blue"), IsCorrect: boolPtr(true)}))
	assert.Equal(t, []string{optID}, models.CorrectOptionIDs(q.Config))

	assert.ErrorIs(t, UpdateOption(q, "missing", OptionUpdate{}), ErrOptionNotFound)

	require.NoError(t, RemoveOption(q, "1"))
	require.NoError(t, RemoveOption(q, "2"))
	assert.ErrorIs(t, RemoveOption(q, optID), ErrMinimumEntries)
	assert.ErrorIs(t, RemoveOption(q, "1"), ErrOptionNotFound)

	cloze := newQuestion(t, models.QuestionTypeCloze)
	_, err = AddOption(cloze, "x")
	assert.ErrorIs(t, err, ErrWrongQuestionType)
}

func TestCategories(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeCategorize)
	cfg := q.Config.(*models.CategorizeConfig)

	cat, err := AddCategory(q, "")
	require.NoError(t, err)
	assert.Equal(t, "Category 3", cat.Label)
	assert.Equal(t, models.CategoryColors[2], cat.Color)

	require.NoError(t, UpdateCategory(q, cat.ID, CategoryUpdate{Label: strPtr("Reptiles")}))
	assert.Equal(t, "Reptiles", cfg.Categories[2].Label)

	require.NoError(t, RemoveCategory(q, "1"))
	assert.Len(t, cfg.Categories, 2)
	assert.Equal(t, "", cfg.Items[0].CorrectCategory, "items keyed to a removed category lose their key")
	assert.Equal(t, "2", cfg.Items[1].CorrectCategory)
	assert.NoError(t, validator.ValidateQuestion(0, q))

	assert.ErrorIs(t, RemoveCategory(q, "1"), ErrCategoryNotFound)
}

func TestItems(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeCategorize)
	cfg := q.Config.(*models.CategorizeConfig)

	item, err := AddItem(q, "Whale")
	require.NoError(t, err)
	assert.Equal(t, "1", item.CorrectCategory)
	itemID := item.ID

	require.NoError(t, UpdateItem(q, itemID, ItemUpdate{CorrectCategory: strPtr("2")}))
	assert.Equal(t, "2", cfg.Items[2].CorrectCategory)

	assert.ErrorIs(t, UpdateItem(q, itemID, ItemUpdate{CorrectCategory: strPtr("nope")}), ErrCategoryNotFound)
	require.NoError(t, UpdateItem(q, itemID, ItemUpdate{CorrectCategory: strPtr("")}))
	assert.Equal(t, "", cfg.Items[2].CorrectCategory)

	require.NoError(t, RemoveItem(q, "1"))
	require.NoError(t, RemoveItem(q, "2"))
	assert.ErrorIs(t, RemoveItem(q, itemID), ErrMinimumEntries)
	assert.ErrorIs(t, RemoveItem(q, "1"), ErrItemNotFound)
}

func TestCloze(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeCloze)
	cfg := q.Config.(*models.ClozeConfig)

	require.NoError(t, UpdateBlank(q, "blank-1", BlankUpdate{
		CorrectAnswers: []string{"Paris", "", "paris"},
		CaseSensitive:  boolPtr(true),
	}))
	assert.Equal(t, []string{"Paris", "paris"}, cfg.Blanks[1].CorrectAnswers)

	require.NoError(t, SetClozeText(q, "The {{capital}} of France is {{Paris}} on the {{Seine}}."))
	require.Len(t, cfg.Blanks, 3)
	assert.Equal(t, "blank-1", cfg.Blanks[1].ID)
	assert.True(t, cfg.Blanks[1].CaseSensitive)
	assert.Equal(t, []string{"Seine"}, cfg.Blanks[2].CorrectAnswers)
	assert.NoError(t, validator.ValidateQuestion(0, q))

	require.NoError(t, SetClozeText(q, "Only {{one}}."))
	assert.Len(t, cfg.Blanks, 1)

	assert.ErrorIs(t, UpdateBlank(q, "missing", BlankUpdate{}), ErrBlankNotFound)
}

func TestSubQuestions(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeComprehension)
	cfg := q.Config.(*models.ComprehensionConfig)

	tf, err := AddSubQuestion(q, models.SubQuestionTrueFalse)
	require.NoError(t, err)
	assert.Equal(t, true, tf.CorrectAnswer)
	tfID := tf.ID

	short, err := AddSubQuestion(q, models.SubQuestionShortAnswer)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sample answer"}, short.CorrectAnswers)
	shortID := short.ID

	legacy, err := AddSubQuestion(q, "multiple-choice")
	require.NoError(t, err)
	assert.Equal(t, models.SubQuestionMCQ, legacy.Type)
	assert.Len(t, legacy.Options, 4)

	_, err = AddSubQuestion(q, "essay")
	assert.ErrorIs(t, err, ErrUnknownSubQuestionType)
	assert.ErrorIs(t, ChangeSubQuestionType(q, tfID, "essay"), ErrUnknownSubQuestionType)

	require.NoError(t, UpdateSubQuestion(q, tfID, SubQuestionUpdate{CorrectAnswer: boolPtr(false), Points: floatPtr(2)}))
	sub, _ := cfg.SubQuestion(tfID)
	assert.Equal(t, false, sub.CorrectAnswer)
	assert.Equal(t, 2.0, sub.Points)

	assert.ErrorIs(t, UpdateSubQuestion(q, tfID, SubQuestionUpdate{CorrectAnswers: []string{"x"}}), ErrWrongQuestionType)
	require.NoError(t, UpdateSubQuestion(q, shortID, SubQuestionUpdate{CorrectAnswers: []string{"x"}, CaseSensitive: boolPtr(true)}))

	assert.NoError(t, validator.ValidateQuestion(0, q))

	require.NoError(t, RemoveSubQuestion(q, shortID))
	assert.ErrorIs(t, RemoveSubQuestion(q, shortID), ErrSubQuestionNotFound)
}

func TestChangeSubQuestionType(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeComprehension)
	cfg := q.Config.(*models.ComprehensionConfig)
	id := cfg.SubQuestions[0].ID

	require.NoError(t, ChangeSubQuestionType(q, id, models.SubQuestionTrueFalse))
	sub := &cfg.SubQuestions[0]
	assert.Nil(t, sub.Options)
	assert.Equal(t, true, sub.CorrectAnswer)

	require.NoError(t, ChangeSubQuestionType(q, id, models.SubQuestionShortAnswer))
	assert.Nil(t, sub.CorrectAnswer)
	assert.Equal(t, []string{""}, sub.CorrectAnswers)
	assert.Equal(t, models.DefaultShortAnswerMaxLength, sub.MaxLength)

	require.NoError(t, ChangeSubQuestionType(q, id, models.SubQuestionMCA))
	assert.Nil(t, sub.CorrectAnswers)
	assert.Len(t, sub.Options, 2)
	assert.NoError(t, validator.ValidateQuestion(0, q))

	assert.ErrorIs(t, ChangeSubQuestionType(q, "missing", models.SubQuestionMCQ), ErrSubQuestionNotFound)
}

func TestSubQuestionOptions(t *testing.T) {
	q := newQuestion(t, models.QuestionTypeComprehension)
	cfg := q.Config.(*models.ComprehensionConfig)
	id := cfg.SubQuestions[0].ID

	opt, err := AddSubQuestionOption(q, id, "Maybe")
	require.NoError(t, err)
	optID := opt.ID
	require.NoError(t, UpdateSubQuestionOption(q, id, optID, OptionUpdate{IsCorrect: boolPtr(true)}))
	assert.Equal(t, []string{optID}, cfg.SubQuestions[0].CorrectOptionIDs())

	require.NoError(t, RemoveSubQuestionOption(q, id, "1"))
	assert.ErrorIs(t, RemoveSubQuestionOption(q, id, "2"), ErrMinimumEntries)

	tf, err := AddSubQuestion(q, models.SubQuestionTrueFalse)
	require.NoError(t, err)
	_, err = AddSubQuestionOption(q, tf.ID, "x")
	assert.ErrorIs(t, err, ErrWrongQuestionType)
}
