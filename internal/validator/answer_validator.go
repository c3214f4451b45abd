package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SAP-F-2025/form-service/internal/cloze"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// IsRequiredAnswerPresent reports whether raw completely answers q: every
// blank filled, every item placed, every sub-question answered. raw is the
// JSON-decoded answer value. The rule is the same whether or not q is
// required; callers only enforce it for required questions.
func IsRequiredAnswerPresent(q *models.Question, raw any) bool {
	switch cfg := q.Config.(type) {
	case *models.SingleChoiceConfig:
		s, ok := raw.(string)
		return ok && strings.TrimSpace(s) != ""
	case *models.MultiChoiceConfig:
		return listLen(raw) > 0
	case *models.ClozeConfig:
		return clozeComplete(cfg, raw)
	case *models.CategorizeConfig:
		obj, ok := raw.(map[string]any)
		if !ok {
			return false
		}
		for _, item := range cfg.Items {
			if !nonEmptyString(obj[item.ID]) {
				return false
			}
		}
		return true
	case *models.ComprehensionConfig:
		obj, ok := raw.(map[string]any)
		if !ok {
			return false
		}
		for _, sub := range cfg.SubQuestions {
			if !subAnswerPresent(sub, obj[sub.ID]) {
				return false
			}
		}
		return true
	default:
		return genericPresent(raw)
	}
}

// clozeComplete requires a non-blank answer for each of the n blanks of
// the text, under key blank-<i> or at index i of a legacy array. Extra
// keys are ignored.
func clozeComplete(cfg *models.ClozeConfig, raw any) bool {
	expected := cloze.CountBlanks(cfg.Text)
	switch v := raw.(type) {
	case map[string]any:
		for i := 0; i < expected; i++ {
			if !nonEmptyString(v[models.ClozeAnswerKey(i)]) {
				return false
			}
		}
		return true
	case []any:
		if len(v) < expected {
			return false
		}
		for i := 0; i < expected; i++ {
			if !nonEmptyString(v[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func subAnswerPresent(sub models.SubQuestion, v any) bool {
	if sub.Type == models.SubQuestionMCA {
		return listLen(v) > 0
	}
	switch value := v.(type) {
	case bool:
		return sub.Type == models.SubQuestionTrueFalse
	case []any:
		return len(value) > 0
	}
	return nonEmptyString(v)
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

func listLen(v any) int {
	switch list := v.(type) {
	case []any:
		return len(list)
	case []string:
		return len(list)
	}
	return -1
}

// genericPresent is the fallback rule: the value stringified and trimmed
// must not be empty. Lists stringify to their joined elements and objects
// always count as present.
func genericPresent(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		for _, item := range v {
			if genericPresent(item) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// CheckAnswerFormat checks that raw has the shape q's type requires and
// that every id it mentions exists in q's config. On success it returns the
// decoded payload; a nil raw yields a nil payload.
func CheckAnswerFormat(q *models.Question, raw any) (models.AnswerPayload, error) {
	if !models.IsKnownType(q.Type) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownQuestionType, q.Type)
	}
	if q.Config == nil || q.Config.QuestionType() != q.Type {
		return nil, fmt.Errorf("question %q has no %s config", q.ID, q.Type)
	}
	payload, err := models.DecodeAnswer(q.Type, raw)
	if err != nil || payload == nil {
		return payload, err
	}

	switch cfg := q.Config.(type) {
	case *models.SingleChoiceConfig:
		answer := payload.(models.SingleChoiceAnswer)
		if answer.OptionID != "" && !hasOption(cfg.Options, answer.OptionID) {
			return nil, malformed("unknown option %q", answer.OptionID)
		}
	case *models.MultiChoiceConfig:
		for _, id := range payload.(models.MultiChoiceAnswer).OptionIDs {
			if !hasOption(cfg.Options, id) {
				return nil, malformed("unknown option %q", id)
			}
		}
	case *models.CategorizeConfig:
		if err := checkCategorize(cfg, payload.(models.CategorizeAnswer)); err != nil {
			return nil, err
		}
	case *models.ComprehensionConfig:
		if err := checkComprehension(cfg, payload.(models.ComprehensionAnswer)); err != nil {
			return nil, err
		}
	case *models.ImageConfig:
		answer := payload.(models.ImageAnswer)
		limit := 1
		if cfg.AllowMultipleImages && cfg.MaxImages > 0 {
			limit = cfg.MaxImages
		}
		if len(answer.Images) > limit {
			return nil, malformed("at most %d images allowed", limit)
		}
	}
	return payload, nil
}

// IsWellFormedAnswer reports whether CheckAnswerFormat accepts raw.
func IsWellFormedAnswer(q *models.Question, raw any) bool {
	_, err := CheckAnswerFormat(q, raw)
	return err == nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrMalformedAnswer, fmt.Sprintf(format, args...))
}

func hasOption(options []models.Option, id string) bool {
	for _, option := range options {
		if option.ID == id {
			return true
		}
	}
	return false
}

func checkCategorize(cfg *models.CategorizeConfig, answer models.CategorizeAnswer) error {
	items := make(map[string]struct{}, len(cfg.Items))
	for _, item := range cfg.Items {
		items[item.ID] = struct{}{}
	}
	categories := make(map[string]struct{}, len(cfg.Categories))
	for _, category := range cfg.Categories {
		categories[category.ID] = struct{}{}
	}
	for item, category := range answer.Assignments {
		if _, ok := items[item]; !ok {
			return malformed("unknown item %q", item)
		}
		if _, ok := categories[category]; !ok {
			return malformed("unknown category %q for item %q", category, item)
		}
	}
	return nil
}

func checkComprehension(cfg *models.ComprehensionConfig, answer models.ComprehensionAnswer) error {
	for id, response := range answer.Responses {
		sub, ok := cfg.SubQuestion(id)
		if !ok {
			return malformed("unknown sub-question %q", id)
		}
		if err := checkSubAnswer(sub, response); err != nil {
			return malformed("sub-question %q: %s", id, err)
		}
	}
	return nil
}

func checkSubAnswer(sub *models.SubQuestion, response models.SubAnswer) error {
	switch sub.Type {
	case models.SubQuestionMCQ:
		if response.IsList || response.Flag != nil {
			return fmt.Errorf("expected a selected option id")
		}
		if response.Text != "" && !hasOption(sub.Options, response.Text) {
			return fmt.Errorf("unknown option %q", response.Text)
		}
	case models.SubQuestionMCA:
		if !response.IsList {
			return fmt.Errorf("expected a list of option ids")
		}
		for _, id := range response.Choices {
			if !hasOption(sub.Options, id) {
				return fmt.Errorf("unknown option %q", id)
			}
		}
	case models.SubQuestionTrueFalse:
		if response.IsList {
			return fmt.Errorf("expected true or false")
		}
		if response.Flag == nil && response.Text != "" && response.Text != "true" && response.Text != "false" {
			return fmt.Errorf("expected true or false")
		}
	case models.SubQuestionShortAnswer:
		if response.IsList || response.Flag != nil {
			return fmt.Errorf("expected text")
		}
		if limit := sub.EffectiveMaxLength(); utf8.RuneCountInString(response.Text) > limit {
			return fmt.Errorf("answer longer than %d characters", limit)
		}
	}
	return nil
}
