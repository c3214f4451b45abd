package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/cloze"
	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
)

func configError(reason apperrors.ConfigReason, format string, args ...any) *apperrors.ConfigError {
	return &apperrors.ConfigError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ValidateConfig checks that cfg is well-formed enough to save or publish a
// question of type t. It returns nil or a *errors.ConfigError.
func ValidateConfig(t models.QuestionType, cfg models.QuestionConfig) error {
	if ce := validateConfig(t, cfg); ce != nil {
		ce.QuestionType = string(t)
		return ce
	}
	return nil
}

// ValidateQuestion checks the config of the question at index in a form.
func ValidateQuestion(index int, q *models.Question) error {
	ce := validateConfig(q.Type, q.Config)
	if ce == nil {
		return nil
	}
	ce.QuestionIndex = index
	ce.QuestionID = q.ID
	ce.QuestionType = string(q.Type)
	return ce
}

// ValidateQuestions checks every question and reports all failures
// together as errors.ConfigErrors.
func ValidateQuestions(questions []models.Question) error {
	var errs apperrors.ConfigErrors
	for i := range questions {
		if err := ValidateQuestion(i, &questions[i]); err != nil {
			var ce *apperrors.ConfigError
			if errors.As(err, &ce) {
				errs = append(errs, ce)
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateConfig(t models.QuestionType, cfg models.QuestionConfig) *apperrors.ConfigError {
	if !models.IsKnownType(t) {
		return configError(apperrors.ReasonUnknownType, "unknown question type %q", t)
	}
	if cfg == nil || cfg.QuestionType() != t {
		return configError(apperrors.ReasonConfigTypeMismatch, "config does not match question type %s", t)
	}

	switch c := cfg.(type) {
	case *models.SingleChoiceConfig:
		return validateOptions(c.Options)
	case *models.MultiChoiceConfig:
		return validateOptions(c.Options)
	case *models.CategorizeConfig:
		return validateCategorize(c)
	case *models.ClozeConfig:
		return validateCloze(c)
	case *models.ComprehensionConfig:
		return validateComprehension(c)
	case *models.ImageConfig:
		return validateImage(c)
	default:
		return configError(apperrors.ReasonConfigTypeMismatch, "unsupported config for question type %s", t)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// uniqueIDs returns the first empty or repeated id, if any.
func uniqueIDs(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return id, false
		}
		if _, dup := seen[id]; dup {
			return id, false
		}
		seen[id] = struct{}{}
	}
	return "", true
}

func validateOptions(options []models.Option) *apperrors.ConfigError {
	if len(options) == 0 {
		return configError(apperrors.ReasonMissingOptions, "at least one option is required")
	}
	ids := make([]string, len(options))
	for i, option := range options {
		if isBlank(option.Text) {
			return configError(apperrors.ReasonEmptyOptionText, "option %d has no text", i+1)
		}
		ids[i] = option.ID
	}
	if id, ok := uniqueIDs(ids); !ok {
		return configError(apperrors.ReasonDuplicateID, "option ids must be unique and non-empty (got %q)", id)
	}
	return nil
}

func validateCategorize(c *models.CategorizeConfig) *apperrors.ConfigError {
	if len(c.Categories) == 0 {
		return configError(apperrors.ReasonMissingCategories, "at least one category is required")
	}
	if len(c.Items) == 0 {
		return configError(apperrors.ReasonMissingItems, "at least one item is required")
	}

	categoryIDs := make([]string, len(c.Categories))
	known := make(map[string]struct{}, len(c.Categories))
	for i, category := range c.Categories {
		categoryIDs[i] = category.ID
		known[category.ID] = struct{}{}
	}
	if id, ok := uniqueIDs(categoryIDs); !ok {
		return configError(apperrors.ReasonDuplicateID, "category ids must be unique and non-empty (got %q)", id)
	}

	itemIDs := make([]string, len(c.Items))
	for i, item := range c.Items {
		itemIDs[i] = item.ID
		if item.CorrectCategory == "" {
			continue
		}
		if _, ok := known[item.CorrectCategory]; !ok {
			return configError(apperrors.ReasonUnknownCategoryRef,
				"item %q refers to unknown category %q", item.Text, item.CorrectCategory)
		}
	}
	if id, ok := uniqueIDs(itemIDs); !ok {
		return configError(apperrors.ReasonDuplicateID, "item ids must be unique and non-empty (got %q)", id)
	}
	return nil
}

func validateCloze(c *models.ClozeConfig) *apperrors.ConfigError {
	if isBlank(c.Text) {
		return configError(apperrors.ReasonMissingClozeText, "cloze text is required")
	}
	count := cloze.CountBlanks(c.Text)
	if count == 0 {
		return configError(apperrors.ReasonNoBlanks, "cloze text must contain at least one {{blank}}")
	}
	if cloze.HasStrayBraces(c.Text) {
		return configError(apperrors.ReasonUnbalancedBraces, "cloze text has unmatched {{ or }}")
	}
	if len(c.Blanks) != count {
		return configError(apperrors.ReasonBlankCountMismatch,
			"cloze text has %d blanks but %d are configured", count, len(c.Blanks))
	}
	return nil
}

func validateComprehension(c *models.ComprehensionConfig) *apperrors.ConfigError {
	if isBlank(c.Passage) {
		return configError(apperrors.ReasonMissingPassage, "passage is required")
	}
	if len(c.SubQuestions) == 0 {
		return configError(apperrors.ReasonMissingSubQuestions, "at least one sub-question is required")
	}

	ids := make([]string, len(c.SubQuestions))
	for i := range c.SubQuestions {
		sub := &c.SubQuestions[i]
		ids[i] = sub.ID
		if !models.IsKnownSubQuestionType(sub.Type) {
			return configError(apperrors.ReasonUnknownSubType,
				"sub-question %d has unknown type %q", i+1, sub.Type)
		}
		if err := validateSubQuestion(i, sub); err != nil {
			return err
		}
	}
	if id, ok := uniqueIDs(ids); !ok {
		return configError(apperrors.ReasonDuplicateID, "sub-question ids must be unique and non-empty (got %q)", id)
	}
	return nil
}

func validateSubQuestion(i int, sub *models.SubQuestion) *apperrors.ConfigError {
	switch sub.Type {
	case models.SubQuestionMCQ, models.SubQuestionMCA:
		if err := validateOptions(sub.Options); err != nil {
			err.Reason = apperrors.ReasonInvalidSubQuestion
			err.Message = fmt.Sprintf("sub-question %d: %s", i+1, err.Message)
			return err
		}
	case models.SubQuestionTrueFalse:
		if sub.CorrectAnswer != nil {
			if _, ok := sub.CorrectBool(); !ok {
				return configError(apperrors.ReasonInvalidSubQuestion,
					"sub-question %d: correct answer must be true or false", i+1)
			}
		}
	case models.SubQuestionShortAnswer:
		if sub.MaxLength < 0 {
			return configError(apperrors.ReasonInvalidSubQuestion,
				"sub-question %d: max length must not be negative", i+1)
		}
	}
	if sub.Points < 0 {
		return configError(apperrors.ReasonInvalidSubQuestion, "sub-question %d: points must not be negative", i+1)
	}
	return nil
}

func validateImage(c *models.ImageConfig) *apperrors.ConfigError {
	if c.QuestionImage.IsZero() && isBlank(c.Question) {
		return configError(apperrors.ReasonMissingImageOrPrompt, "an image or a question text is required")
	}
	if c.MaxImages < 0 {
		return configError(apperrors.ReasonInvalidMaxImages, "max images must not be negative")
	}
	return nil
}
