package models

// QuestionType is the tag of a question. The set is closed: every type
// listed in AllQuestionTypes has a default config, a validation rule, a
// required rule, a format rule and a scoring strategy.
type QuestionType string

const (
	QuestionTypeMCQ           QuestionType = "mcq"
	QuestionTypeMCA           QuestionType = "mca"
	QuestionTypeCategorize    QuestionType = "categorize"
	QuestionTypeCloze         QuestionType = "cloze"
	QuestionTypeComprehension QuestionType = "comprehension"
	QuestionTypeImage         QuestionType = "image"
)

// AllQuestionTypes lists every supported question type in display order.
var AllQuestionTypes = []QuestionType{
	QuestionTypeMCQ,
	QuestionTypeMCA,
	QuestionTypeCategorize,
	QuestionTypeCloze,
	QuestionTypeComprehension,
	QuestionTypeImage,
}

// IsKnownType reports whether t is one of the supported question types.
func IsKnownType(t QuestionType) bool {
	for _, known := range AllQuestionTypes {
		if known == t {
			return true
		}
	}
	return false
}

// Label returns a human readable name used by the builder palette and exports.
func (t QuestionType) Label() string {
	switch t {
	case QuestionTypeMCQ:
		return "Multiple Choice"
	case QuestionTypeMCA:
		return "Multiple Answer"
	case QuestionTypeCategorize:
		return "Categorize"
	case QuestionTypeCloze:
		return "Cloze (Fill in the blanks)"
	case QuestionTypeComprehension:
		return "Comprehension"
	case QuestionTypeImage:
		return "Image Based"
	default:
		return string(t)
	}
}

// SubQuestionType tags a sub-question inside a comprehension passage.
type SubQuestionType string

const (
	SubQuestionMCQ         SubQuestionType = "mcq"
	SubQuestionMCA         SubQuestionType = "mca"
	SubQuestionTrueFalse   SubQuestionType = "true-false"
	SubQuestionShortAnswer SubQuestionType = "short-answer"

	// legacy tag written by older editors
	subQuestionMultipleChoice SubQuestionType = "multiple-choice"
)

// AllSubQuestionTypes lists the sub-question types a comprehension may hold.
var AllSubQuestionTypes = []SubQuestionType{
	SubQuestionMCQ,
	SubQuestionMCA,
	SubQuestionTrueFalse,
	SubQuestionShortAnswer,
}

// IsKnownSubQuestionType reports whether t is a supported sub-question type.
func IsKnownSubQuestionType(t SubQuestionType) bool {
	for _, known := range AllSubQuestionTypes {
		if known == t {
			return true
		}
	}
	return false
}

// Normalize maps legacy tags onto their current spelling.
func (t SubQuestionType) Normalize() SubQuestionType {
	if t == subQuestionMultipleChoice {
		return SubQuestionMCQ
	}
	return t
}

// DefaultShortAnswerMaxLength is applied to short-answer sub-questions that
// do not set maxLength.
const DefaultShortAnswerMaxLength = 200
