package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultSubmissionMessage = "Thank you for your submission!"

type FormStatus string

const (
	FormStatusDraft     FormStatus = "draft"
	FormStatusPublished FormStatus = "published"
)

type FormSettings struct {
	IsPublished              bool   `json:"isPublished" gorm:"column:is_published;index"`
	AllowAnonymous           bool   `json:"allowAnonymous" gorm:"column:allow_anonymous"`
	CollectEmail             bool   `json:"collectEmail" gorm:"column:collect_email"`
	ShowProgressBar          bool   `json:"showProgressBar" gorm:"column:show_progress_bar"`
	AllowMultipleSubmissions bool   `json:"allowMultipleSubmissions" gorm:"column:allow_multiple_submissions"`
	SubmissionMessage        string `json:"submissionMessage" gorm:"column:submission_message;size:200" validate:"max=200"`
}

// DefaultFormSettings returns the settings of a new form.
func DefaultFormSettings() FormSettings {
	return FormSettings{
		AllowAnonymous:    true,
		ShowProgressBar:   true,
		SubmissionMessage: DefaultSubmissionMessage,
	}
}

type FormAnalytics struct {
	TotalViews            int64 `json:"totalViews" gorm:"column:total_views;default:0"`
	TotalSubmissions      int64 `json:"totalSubmissions" gorm:"column:total_submissions;default:0"`
	AverageCompletionTime int64 `json:"averageCompletionTime" gorm:"column:average_completion_time;default:0"`
}

// CompletionRate is the share of views that ended in a submission, in percent.
func (a FormAnalytics) CompletionRate() int {
	if a.TotalViews == 0 {
		return 0
	}
	return int(math.Round(float64(a.TotalSubmissions) / float64(a.TotalViews) * 100))
}

// RecordSubmission folds one submission into the running average.
func (a *FormAnalytics) RecordSubmission(completionSeconds float64) {
	a.TotalSubmissions++
	if completionSeconds > 0 {
		total := float64(a.AverageCompletionTime) * float64(a.TotalSubmissions-1)
		a.AverageCompletionTime = int64(math.Round((total + completionSeconds) / float64(a.TotalSubmissions)))
	}
}

type Form struct {
	ID          uint                          `json:"id" gorm:"primaryKey"`
	Title       string                        `json:"title" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Description string                        `json:"description" gorm:"type:text" validate:"max=500"`
	HeaderImage string                        `json:"headerImage,omitempty" gorm:"size:500"`
	OwnerID     string                        `json:"ownerId" gorm:"not null;size:64;index"`
	Questions   datatypes.JSONSlice[Question] `json:"questions" gorm:"type:jsonb" validate:"dive"`
	Settings    FormSettings                  `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`
	Analytics   FormAnalytics                 `json:"analytics" gorm:"embedded;embeddedPrefix:analytics_"`
	PublishedAt *time.Time                    `json:"publishedAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Computed fields (not stored)
	ResponseCount int64 `json:"responseCount" gorm:"-"`
}

func (Form) TableName() string {
	return "forms"
}

// Question looks a question up by id.
func (f *Form) Question(id string) (*Question, bool) {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i], true
		}
	}
	return nil, false
}

func (f *Form) Status() FormStatus {
	if f.Settings.IsPublished {
		return FormStatusPublished
	}
	return FormStatusDraft
}

// IsOwnedBy reports whether userID owns the form.
func (f *Form) IsOwnedBy(userID string) bool {
	return userID != "" && f.OwnerID == userID
}

// PublicSettings is the part of the settings shown to respondents.
type PublicSettings struct {
	IsPublished       bool   `json:"isPublished"`
	AllowAnonymous    bool   `json:"allowAnonymous"`
	CollectEmail      bool   `json:"collectEmail"`
	ShowProgressBar   bool   `json:"showProgressBar"`
	SubmissionMessage string `json:"submissionMessage"`
}

// PublicForm is what respondents see while filling in a form.
type PublicForm struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	HeaderImage string         `json:"headerImage,omitempty"`
	Questions   []Question     `json:"questions"`
	Settings    PublicSettings `json:"settings"`
}

// PublicData projects the form for respondents. Answer keys are removed
// from every question config.
func (f *Form) PublicData() *PublicForm {
	questions := make([]Question, len(f.Questions))
	for i, q := range f.Questions {
		q.Config = WithoutAnswerKey(q.Config)
		q.Scoring = Scoring{Enabled: q.Scoring.Enabled, Points: q.Scoring.Points}
		questions[i] = q
	}
	return &PublicForm{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		HeaderImage: f.HeaderImage,
		Questions:   questions,
		Settings: PublicSettings{
			IsPublished:       f.Settings.IsPublished,
			AllowAnonymous:    f.Settings.AllowAnonymous,
			CollectEmail:      f.Settings.CollectEmail,
			ShowProgressBar:   f.Settings.ShowProgressBar,
			SubmissionMessage: f.Settings.SubmissionMessage,
		},
	}
}

func stripOptions(options []Option) []Option {
	out := make([]Option, len(options))
	for i, o := range options {
		out[i] = Option{ID: o.ID, Text: o.Text}
	}
	return out
}

// WithoutAnswerKey returns a copy of cfg with every correctness field cleared.
func WithoutAnswerKey(cfg QuestionConfig) QuestionConfig {
	switch c := cfg.(type) {
	case *SingleChoiceConfig:
		return &SingleChoiceConfig{Options: stripOptions(c.Options)}
	case *MultiChoiceConfig:
		return &MultiChoiceConfig{Options: stripOptions(c.Options)}
	case *CategorizeConfig:
		items := make([]CategorizeItem, len(c.Items))
		for i, item := range c.Items {
			items[i] = CategorizeItem{ID: item.ID, Text: item.Text}
		}
		return &CategorizeConfig{Categories: append([]Category(nil), c.Categories...), Items: items}
	case *ClozeConfig:
		blanks := make([]Blank, len(c.Blanks))
		for i, b := range c.Blanks {
			blanks[i] = Blank{ID: b.ID, Position: b.Position}
		}
		return &ClozeConfig{Text: c.Text, Blanks: blanks}
	case *ComprehensionConfig:
		subs := make([]SubQuestion, len(c.SubQuestions))
		for i, s := range c.SubQuestions {
			subs[i] = SubQuestion{
				ID:        s.ID,
				Type:      s.Type,
				Question:  s.Question,
				Points:    s.Points,
				Options:   stripOptions(s.Options),
				MaxLength: s.MaxLength,
			}
			if s.Type != SubQuestionMCQ && s.Type != SubQuestionMCA {
				subs[i].Options = nil
			}
		}
		return &ComprehensionConfig{Passage: c.Passage, SubQuestions: subs}
	case *ImageConfig:
		clone := *c
		return &clone
	}
	return cfg
}
