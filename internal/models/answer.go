package models

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrMalformedAnswer = errors.New("malformed answer")

// ClozeAnswerKey is the canonical key of blank i in a cloze answer object.
func ClozeAnswerKey(i int) string {
	return "blank-" + strconv.Itoa(i)
}

// ParseClozeAnswerKey returns the blank index encoded in key. Only the
// canonical spelling produced by ClozeAnswerKey is accepted, so "blank-01"
// and "blank-+1" name no blank.
func ParseClozeAnswerKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "blank-")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || strconv.Itoa(i) != rest {
		return 0, false
	}
	return i, true
}

// Answer is one stored answer of a response.
type Answer struct {
	QuestionID   string       `json:"questionId"`
	QuestionType QuestionType `json:"questionType"`
	Answer       any          `json:"answer"`
	TimeSpent    float64      `json:"timeSpent"`
	Score        *float64     `json:"score"`
	MaxScore     *float64     `json:"maxScore"`
}

// AnswerPayload is a decoded answer. Each question type has exactly one
// payload variant.
type AnswerPayload interface {
	QuestionType() QuestionType
	// Value returns the canonical JSON form stored with the response.
	Value() any
}

// SingleChoiceAnswer answers an mcq question.
type SingleChoiceAnswer struct {
	OptionID string
}

// MultiChoiceAnswer answers an mca question.
type MultiChoiceAnswer struct {
	OptionIDs []string
}

// CategorizeAnswer maps item ids to category ids.
type CategorizeAnswer struct {
	Assignments map[string]string
}

// ClozeAnswer maps blank indexes to the text typed into them.
type ClozeAnswer struct {
	Blanks map[int]string
}

// SubAnswer answers one comprehension sub-question. Exactly one of the
// three shapes is set.
type SubAnswer struct {
	Text    string
	Choices []string
	IsList  bool
	Flag    *bool
}

// ComprehensionAnswer maps sub-question ids to their answers.
type ComprehensionAnswer struct {
	Responses map[string]SubAnswer
}

// ImageAnswer is a text description and/or uploaded images.
type ImageAnswer struct {
	Text   string
	Images []ImageRef
	object bool
}

func (SingleChoiceAnswer) QuestionType() QuestionType  { return QuestionTypeMCQ }
func (MultiChoiceAnswer) QuestionType() QuestionType   { return QuestionTypeMCA }
func (CategorizeAnswer) QuestionType() QuestionType    { return QuestionTypeCategorize }
func (ClozeAnswer) QuestionType() QuestionType         { return QuestionTypeCloze }
func (ComprehensionAnswer) QuestionType() QuestionType { return QuestionTypeComprehension }
func (ImageAnswer) QuestionType() QuestionType         { return QuestionTypeImage }

func (a SingleChoiceAnswer) Value() any { return a.OptionID }

func (a MultiChoiceAnswer) Value() any {
	out := make([]any, len(a.OptionIDs))
	for i, id := range a.OptionIDs {
		out[i] = id
	}
	return out
}

func (a CategorizeAnswer) Value() any {
	out := make(map[string]any, len(a.Assignments))
	for item, category := range a.Assignments {
		out[item] = category
	}
	return out
}

func (a ClozeAnswer) Value() any {
	out := make(map[string]any, len(a.Blanks))
	for i, text := range a.Blanks {
		out[ClozeAnswerKey(i)] = text
	}
	return out
}

// Get returns the text of blank i.
func (a ClozeAnswer) Get(i int) string {
	return a.Blanks[i]
}

func (s SubAnswer) Value() any {
	switch {
	case s.IsList:
		out := make([]any, len(s.Choices))
		for i, c := range s.Choices {
			out[i] = c
		}
		return out
	case s.Flag != nil:
		return *s.Flag
	default:
		return s.Text
	}
}

// IsBlank reports whether the sub-answer carries nothing.
func (s SubAnswer) IsBlank() bool {
	switch {
	case s.IsList:
		return len(s.Choices) == 0
	case s.Flag != nil:
		return false
	default:
		return strings.TrimSpace(s.Text) == ""
	}
}

func (a ComprehensionAnswer) Value() any {
	out := make(map[string]any, len(a.Responses))
	for id, sub := range a.Responses {
		out[id] = sub.Value()
	}
	return out
}

func (a ImageAnswer) Value() any {
	if !a.object {
		return a.Text
	}
	out := map[string]any{}
	if a.Text != "" {
		out["text"] = a.Text
	}
	if len(a.Images) > 0 {
		images := make([]any, len(a.Images))
		for i, img := range a.Images {
			ref := map[string]any{"url": img.URL}
			if img.PublicID != "" {
				ref["publicId"] = img.PublicID
			}
			images[i] = ref
		}
		out["images"] = images
	}
	return out
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedAnswer, fmt.Sprintf(format, args...))
}

// DecodeAnswer checks that raw has the shape required by t and converts it
// into the matching payload. raw is a value produced by encoding/json
// decoding into any. A nil raw decodes to a nil payload.
func DecodeAnswer(t QuestionType, raw any) (AnswerPayload, error) {
	if raw == nil {
		return nil, nil
	}
	switch t {
	case QuestionTypeMCQ:
		s, ok := raw.(string)
		if !ok {
			return nil, malformed("expected a selected option id")
		}
		return SingleChoiceAnswer{OptionID: s}, nil
	case QuestionTypeMCA:
		ids, ok := stringList(raw)
		if !ok {
			return nil, malformed("expected a list of selected option ids")
		}
		return MultiChoiceAnswer{OptionIDs: ids}, nil
	case QuestionTypeCategorize:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, malformed("expected an object mapping items to categories")
		}
		assignments := make(map[string]string, len(obj))
		for item, v := range obj {
			if v == nil {
				continue
			}
			category, ok := v.(string)
			if !ok {
				return nil, malformed("category for item %q must be a string", item)
			}
			assignments[item] = category
		}
		return CategorizeAnswer{Assignments: assignments}, nil
	case QuestionTypeCloze:
		return decodeCloze(raw)
	case QuestionTypeComprehension:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, malformed("expected an object keyed by sub-question id")
		}
		responses := make(map[string]SubAnswer, len(obj))
		for id, v := range obj {
			if v == nil {
				continue
			}
			sub, err := decodeSubAnswer(v)
			if err != nil {
				return nil, malformed("sub-question %q: %s", id, err)
			}
			responses[id] = sub
		}
		return ComprehensionAnswer{Responses: responses}, nil
	case QuestionTypeImage:
		return decodeImage(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, t)
	}
}

func stringList(raw any) ([]string, bool) {
	items, ok := raw.([]any)
	if !ok {
		if ss, ok := raw.([]string); ok {
			return ss, true
		}
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// decodeCloze accepts the canonical object form and the legacy array form
// aligned to blank position.
func decodeCloze(raw any) (AnswerPayload, error) {
	blanks := map[int]string{}
	switch v := raw.(type) {
	case map[string]any:
		for key, value := range v {
			i, ok := ParseClozeAnswerKey(key)
			if !ok || value == nil {
				continue
			}
			text, ok := value.(string)
			if !ok {
				return nil, malformed("%s must be a string", key)
			}
			blanks[i] = text
		}
	case []any:
		for i, value := range v {
			if value == nil {
				continue
			}
			text, ok := value.(string)
			if !ok {
				return nil, malformed("blank %d must be a string", i)
			}
			blanks[i] = text
		}
	default:
		return nil, malformed("expected an object keyed by blank-<index>")
	}
	return ClozeAnswer{Blanks: blanks}, nil
}

func decodeSubAnswer(v any) (SubAnswer, error) {
	switch value := v.(type) {
	case string:
		return SubAnswer{Text: value}, nil
	case bool:
		return SubAnswer{Flag: &value}, nil
	default:
		choices, ok := stringList(v)
		if !ok {
			return SubAnswer{}, errors.New("expected a string or a list of strings")
		}
		return SubAnswer{Choices: choices, IsList: true}, nil
	}
}

func decodeImage(raw any) (AnswerPayload, error) {
	switch v := raw.(type) {
	case string:
		return ImageAnswer{Text: v}, nil
	case map[string]any:
		answer := ImageAnswer{object: true}
		if text, ok := v["text"].(string); ok {
			answer.Text = text
		}
		if ref, ok := imageRefFrom(v); ok {
			answer.Images = append(answer.Images, ref)
		}
		if images, ok := v["images"].([]any); ok {
			for _, img := range images {
				ref, ok := imageRefFrom(img)
				if !ok {
					return nil, malformed("images must be urls or image objects")
				}
				answer.Images = append(answer.Images, ref)
			}
		}
		return answer, nil
	default:
		return nil, malformed("expected text or an image reference")
	}
}

func imageRefFrom(v any) (ImageRef, bool) {
	switch ref := v.(type) {
	case string:
		return ImageRef{URL: ref}, ref != ""
	case map[string]any:
		url, _ := ref["url"].(string)
		if url == "" {
			url, _ = ref["secure_url"].(string)
		}
		publicID, _ := ref["publicId"].(string)
		if publicID == "" {
			publicID, _ = ref["public_id"].(string)
		}
		return ImageRef{URL: url, PublicID: publicID}, url != ""
	}
	return ImageRef{}, false
}

// IsBlankAnswer reports whether a raw answer carries no content: nil, a
// blank string, or an empty list or object.
func IsBlankAnswer(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// SortedBlankIndexes returns the filled blank indexes in ascending order.
func (a ClozeAnswer) SortedBlankIndexes() []int {
	out := make([]int, 0, len(a.Blanks))
	for i := range a.Blanks {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
