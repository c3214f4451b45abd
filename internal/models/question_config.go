package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QuestionConfig is the type-specific authoring data of a question. Each
// question type has exactly one config variant; callers branch with a type
// switch over the concrete pointer types below.
type QuestionConfig interface {
	QuestionType() QuestionType
	isQuestionConfig()
}

// Option is a selectable choice of an mcq, mca or comprehension sub-question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// SingleChoiceConfig configures an mcq question.
type SingleChoiceConfig struct {
	Options []Option `json:"options"`
}

// MultiChoiceConfig configures an mca question.
type MultiChoiceConfig struct {
	Options []Option `json:"options"`
}

// Category is a bucket items can be sorted into.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// CategorizeItem is an item to be sorted. CorrectCategory is part of the
// answer key and may be empty.
type CategorizeItem struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	CorrectCategory string `json:"correctCategory,omitempty"`
}

// CategorizeConfig configures a categorize question.
type CategorizeConfig struct {
	Categories []Category       `json:"categories"`
	Items      []CategorizeItem `json:"items"`
}

// Blank is the answer key of one {{...}} placeholder in a cloze text.
type Blank struct {
	ID             string   `json:"id"`
	CorrectAnswers []string `json:"correctAnswers"`
	CaseSensitive  bool     `json:"caseSensitive"`
	Position       int      `json:"position"`
	BlankText      string   `json:"blankText,omitempty"`
}

// ClozeConfig configures a cloze question.
type ClozeConfig struct {
	Text   string  `json:"text"`
	Blanks []Blank `json:"blanks"`
}

// SubQuestion is one question attached to a comprehension passage. Which of
// the key fields apply depends on Type:
//
//	mcq, mca      Options with IsCorrect
//	true-false    CorrectAnswer (bool)
//	short-answer  CorrectAnswers, CaseSensitive, MaxLength
//
// Older documents may carry CorrectAnswer on an mcq sub-question (the
// correct option id).
type SubQuestion struct {
	ID             string          `json:"id"`
	Type           SubQuestionType `json:"type"`
	Question       string          `json:"question"`
	Points         float64         `json:"points,omitempty"`
	Options        []Option        `json:"options,omitempty"`
	CorrectAnswer  any             `json:"correctAnswer,omitempty"`
	CorrectAnswers []string        `json:"correctAnswers,omitempty"`
	CaseSensitive  bool            `json:"caseSensitive,omitempty"`
	MaxLength      int             `json:"maxLength,omitempty"`
}

func (s *SubQuestion) UnmarshalJSON(data []byte) error {
	type alias SubQuestion
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SubQuestion(raw)
	s.Type = s.Type.Normalize()
	return nil
}

// CorrectBool returns the true-false key when one is set.
func (s *SubQuestion) CorrectBool() (bool, bool) {
	switch v := s.CorrectAnswer.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// CorrectText returns a string key when one is set.
func (s *SubQuestion) CorrectText() (string, bool) {
	v, ok := s.CorrectAnswer.(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// CorrectOptionIDs returns the ids of options flagged correct.
func (s *SubQuestion) CorrectOptionIDs() []string {
	return correctOptionIDs(s.Options)
}

// HasAnswerKey reports whether the sub-question carries any correctness
// data for its own type.
func (s *SubQuestion) HasAnswerKey() bool {
	switch s.Type {
	case SubQuestionMCQ:
		if _, ok := s.CorrectText(); ok {
			return true
		}
		return len(s.CorrectOptionIDs()) > 0
	case SubQuestionMCA:
		return len(s.CorrectOptionIDs()) > 0
	case SubQuestionTrueFalse:
		_, ok := s.CorrectBool()
		return ok
	case SubQuestionShortAnswer:
		for _, answer := range s.CorrectAnswers {
			if answer != "" {
				return true
			}
		}
	}
	return false
}

// EffectiveMaxLength returns the short-answer length limit.
func (s *SubQuestion) EffectiveMaxLength() int {
	if s.MaxLength > 0 {
		return s.MaxLength
	}
	return DefaultShortAnswerMaxLength
}

// ComprehensionConfig configures a comprehension question.
type ComprehensionConfig struct {
	Passage      string        `json:"passage"`
	SubQuestions []SubQuestion `json:"subQuestions"`
}

// SubQuestion looks up a sub-question by id.
func (c *ComprehensionConfig) SubQuestion(id string) (*SubQuestion, bool) {
	for i := range c.SubQuestions {
		if c.SubQuestions[i].ID == id {
			return &c.SubQuestions[i], true
		}
	}
	return nil, false
}

// ImageConfig configures an image question.
type ImageConfig struct {
	QuestionImage       *ImageRef `json:"questionImage"`
	Question            string    `json:"question,omitempty"`
	AllowMultipleImages bool      `json:"allowMultipleImages"`
	MaxImages           int       `json:"maxImages"`
	RequiresTextAnswer  bool      `json:"requiresTextAnswer"`
	TextPlaceholder     string    `json:"textPlaceholder,omitempty"`
}

func (c *ImageConfig) UnmarshalJSON(data []byte) error {
	type alias ImageConfig
	raw := struct {
		alias
		MaxImages *int      `json:"maxImages"`
		ImageURL  *ImageRef `json:"imageUrl"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ImageConfig(raw.alias)
	c.MaxImages = 1
	if raw.MaxImages != nil {
		c.MaxImages = *raw.MaxImages
	}
	if c.QuestionImage.IsZero() && !raw.ImageURL.IsZero() {
		c.QuestionImage = raw.ImageURL
	}
	return nil
}

// RawConfig holds the config of a question whose type tag is not known.
// It is kept so stored documents still load; validation rejects it and the
// scorer gives it no credit.
type RawConfig struct {
	Type QuestionType
	Data json.RawMessage
}

func (c *RawConfig) MarshalJSON() ([]byte, error) {
	if len(c.Data) == 0 {
		return []byte("null"), nil
	}
	return c.Data, nil
}

func (*SingleChoiceConfig) QuestionType() QuestionType  { return QuestionTypeMCQ }
func (*MultiChoiceConfig) QuestionType() QuestionType   { return QuestionTypeMCA }
func (*CategorizeConfig) QuestionType() QuestionType    { return QuestionTypeCategorize }
func (*ClozeConfig) QuestionType() QuestionType         { return QuestionTypeCloze }
func (*ComprehensionConfig) QuestionType() QuestionType { return QuestionTypeComprehension }
func (*ImageConfig) QuestionType() QuestionType         { return QuestionTypeImage }
func (c *RawConfig) QuestionType() QuestionType         { return c.Type }

func (*SingleChoiceConfig) isQuestionConfig()  {}
func (*MultiChoiceConfig) isQuestionConfig()   {}
func (*CategorizeConfig) isQuestionConfig()    {}
func (*ClozeConfig) isQuestionConfig()         {}
func (*ComprehensionConfig) isQuestionConfig() {}
func (*ImageConfig) isQuestionConfig()         {}
func (*RawConfig) isQuestionConfig()           {}

// NewConfig returns an empty config variant for t.
func NewConfig(t QuestionType) (QuestionConfig, error) {
	switch t {
	case QuestionTypeMCQ:
		return &SingleChoiceConfig{}, nil
	case QuestionTypeMCA:
		return &MultiChoiceConfig{}, nil
	case QuestionTypeCategorize:
		return &CategorizeConfig{}, nil
	case QuestionTypeCloze:
		return &ClozeConfig{}, nil
	case QuestionTypeComprehension:
		return &ComprehensionConfig{}, nil
	case QuestionTypeImage:
		return &ImageConfig{MaxImages: 1}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, t)
	}
}

// DecodeConfig decodes raw JSON into the config variant selected by t.
// A missing or null config decodes to the empty variant. Unknown types
// decode to *RawConfig.
func DecodeConfig(t QuestionType, data json.RawMessage) (QuestionConfig, error) {
	cfg, err := NewConfig(t)
	if err != nil {
		return &RawConfig{Type: t, Data: data}, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return cfg, nil
	}
	if err := json.Unmarshal(trimmed, cfg); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", t, err)
	}
	return cfg, nil
}

// Choices returns the options of a choice config, or nil for other variants.
func Choices(cfg QuestionConfig) []Option {
	switch c := cfg.(type) {
	case *SingleChoiceConfig:
		return c.Options
	case *MultiChoiceConfig:
		return c.Options
	}
	return nil
}

func correctOptionIDs(options []Option) []string {
	var ids []string
	for _, option := range options {
		if option.IsCorrect {
			ids = append(ids, option.ID)
		}
	}
	return ids
}

// CorrectOptionIDs returns the ids of options flagged correct in a choice config.
func CorrectOptionIDs(cfg QuestionConfig) []string {
	return correctOptionIDs(Choices(cfg))
}
