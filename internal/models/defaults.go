package models

// Seed values for freshly added questions.
const (
	DefaultClozeText        = "The {{capital}} of France is {{Paris}}."
	DefaultPassage          = "Enter your reading passage here..."
	DefaultImagePrompt      = "Describe what you see in the image."
	DefaultTextPlaceholder  = "Describe what you see..."
	DefaultSubQuestionTitle = "Question about the passage"
)

// CategoryColors is the palette new categories cycle through.
var CategoryColors = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899"}

func defaultOptions() []Option {
	return []Option{
		{ID: "1", Text: "Option 1"},
		{ID: "2", Text: "Option 2"},
	}
}

// DefaultConfig returns the seed configuration for a new question of type t.
// Every seed passes config validation.
func DefaultConfig(t QuestionType) (QuestionConfig, error) {
	switch t {
	case QuestionTypeMCQ:
		return &SingleChoiceConfig{Options: defaultOptions()}, nil
	case QuestionTypeMCA:
		return &MultiChoiceConfig{Options: defaultOptions()}, nil
	case QuestionTypeCategorize:
		return &CategorizeConfig{
			Categories: []Category{
				{ID: "1", Label: "Category 1", Color: CategoryColors[0]},
				{ID: "2", Label: "Category 2", Color: CategoryColors[1]},
			},
			Items: []CategorizeItem{
				{ID: "1", Text: "Item 1", CorrectCategory: "1"},
				{ID: "2", Text: "Item 2", CorrectCategory: "2"},
			},
		}, nil
	case QuestionTypeCloze:
		return &ClozeConfig{
			Text: DefaultClozeText,
			Blanks: []Blank{
				{ID: "blank-0", CorrectAnswers: []string{"capital"}, Position: 0, BlankText: "capital"},
				{ID: "blank-1", CorrectAnswers: []string{"Paris"}, Position: 1, BlankText: "Paris"},
			},
		}, nil
	case QuestionTypeComprehension:
		return &ComprehensionConfig{
			Passage: DefaultPassage,
			SubQuestions: []SubQuestion{
				{ID: "1", Type: SubQuestionMCQ, Question: DefaultSubQuestionTitle, Options: defaultOptions()},
			},
		}, nil
	case QuestionTypeImage:
		return &ImageConfig{
			Question:        DefaultImagePrompt,
			MaxImages:       1,
			TextPlaceholder: DefaultTextPlaceholder,
		}, nil
	default:
		return nil, ErrUnknownQuestionType
	}
}
