package errors

import "fmt"

// Code labels an error for callers. Codes are stable and part of the API.
type Code string

const (
	CodeInvalidQuestionConfig   Code = "INVALID_QUESTION_CONFIG"
	CodeRequiredQuestionMissing Code = "REQUIRED_QUESTION_MISSING"
	CodeInvalidAnswerFormat     Code = "INVALID_ANSWER_FORMAT"
)

// ConfigReason says which rule a question config broke.
type ConfigReason string

const (
	ReasonUnknownType          ConfigReason = "UNKNOWN_TYPE"
	ReasonConfigTypeMismatch   ConfigReason = "CONFIG_TYPE_MISMATCH"
	ReasonMissingOptions       ConfigReason = "MISSING_OPTIONS"
	ReasonEmptyOptionText      ConfigReason = "EMPTY_OPTION_TEXT"
	ReasonDuplicateID          ConfigReason = "DUPLICATE_ID"
	ReasonMissingCategories    ConfigReason = "MISSING_CATEGORIES"
	ReasonMissingItems         ConfigReason = "MISSING_ITEMS"
	ReasonUnknownCategoryRef   ConfigReason = "UNKNOWN_CATEGORY_REF"
	ReasonMissingClozeText     ConfigReason = "MISSING_CLOZE_TEXT"
	ReasonNoBlanks             ConfigReason = "NO_BLANKS"
	ReasonUnbalancedBraces     ConfigReason = "UNBALANCED_BRACES"
	ReasonBlankCountMismatch   ConfigReason = "BLANK_COUNT_MISMATCH"
	ReasonMissingPassage       ConfigReason = "MISSING_PASSAGE"
	ReasonMissingSubQuestions  ConfigReason = "MISSING_SUB_QUESTIONS"
	ReasonUnknownSubType       ConfigReason = "UNKNOWN_SUB_QUESTION_TYPE"
	ReasonInvalidSubQuestion   ConfigReason = "INVALID_SUB_QUESTION"
	ReasonMissingImageOrPrompt ConfigReason = "MISSING_IMAGE_OR_PROMPT"
	ReasonInvalidMaxImages     ConfigReason = "INVALID_MAX_IMAGES"
)

// ConfigError reports a question config that cannot be saved or published.
type ConfigError struct {
	Reason        ConfigReason `json:"reason"`
	Message       string       `json:"message"`
	QuestionIndex int          `json:"questionIndex"`
	QuestionID    string       `json:"questionId,omitempty"`
	QuestionType  string       `json:"questionType"`
}

func (e *ConfigError) Code() Code { return CodeInvalidQuestionConfig }

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config for question %d (%s): %s", e.QuestionIndex+1, e.QuestionType, e.Message)
}

// ConfigErrors collects every failing question of a form.
type ConfigErrors []*ConfigError

func (ce ConfigErrors) Code() Code { return CodeInvalidQuestionConfig }

func (ce ConfigErrors) Error() string {
	switch len(ce) {
	case 0:
		return "invalid question config"
	case 1:
		return ce[0].Error()
	default:
		return fmt.Sprintf("invalid question config: %d questions failed (first: %s)", len(ce), ce[0].Error())
	}
}

// SubmissionIssue names one question that blocked a submission.
type SubmissionIssue struct {
	Code          Code   `json:"code"`
	QuestionID    string `json:"questionId"`
	QuestionTitle string `json:"questionTitle"`
	Reason        string `json:"reason,omitempty"`
}

// SubmissionError rejects a whole submission. Code and message follow the
// first issue; Issues lists all of them.
type SubmissionError struct {
	Issues []SubmissionIssue `json:"issues"`
}

func (e *SubmissionError) Code() Code {
	if len(e.Issues) == 0 {
		return CodeInvalidAnswerFormat
	}
	return e.Issues[0].Code
}

func (e *SubmissionError) Error() string {
	if len(e.Issues) == 0 {
		return "submission rejected"
	}
	first := e.Issues[0]
	var msg string
	switch first.Code {
	case CodeRequiredQuestionMissing:
		msg = "Answer required for question: " + first.QuestionTitle
	default:
		msg = "Invalid answer format for question: " + first.QuestionTitle
	}
	if len(e.Issues) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(e.Issues)-1)
	}
	return msg
}
