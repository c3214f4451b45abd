package models

import (
	"time"

	"gorm.io/datatypes"
)

type Response struct {
	ID              uint                        `json:"id" gorm:"primaryKey"`
	FormID          uint                        `json:"formId" gorm:"not null;index"`
	RespondentID    *string                     `json:"respondentId,omitempty" gorm:"size:64;index"`
	RespondentEmail string                      `json:"respondentEmail,omitempty" gorm:"size:255;index" validate:"omitempty,email"`
	RespondentName  string                      `json:"respondentName,omitempty" gorm:"size:100" validate:"max=100"`
	Answers         datatypes.JSONSlice[Answer] `json:"answers" gorm:"type:jsonb"`

	StartedAt            time.Time `json:"startedAt"`
	SubmittedAt          time.Time `json:"submittedAt" gorm:"index"`
	TotalTimeSpent       float64   `json:"totalTimeSpent"`
	CompletionPercentage int       `json:"completionPercentage"`
	IsComplete           bool      `json:"isComplete" gorm:"index"`

	TotalScore      *float64 `json:"totalScore,omitempty"`
	MaxTotalScore   *float64 `json:"maxTotalScore,omitempty"`
	ScorePercentage *int     `json:"scorePercentage,omitempty"`

	IPAddress string            `json:"ipAddress,omitempty" gorm:"size:64"`
	UserAgent string            `json:"userAgent,omitempty" gorm:"size:500"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Response) TableName() string {
	return "responses"
}

// Duration is the time between opening the form and submitting it.
func (r *Response) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.SubmittedAt.Before(r.StartedAt) {
		return 0
	}
	return r.SubmittedAt.Sub(r.StartedAt)
}

// Answer looks up the stored answer for a question.
func (r *Response) Answer(questionID string) (*Answer, bool) {
	for i := range r.Answers {
		if r.Answers[i].QuestionID == questionID {
			return &r.Answers[i], true
		}
	}
	return nil, false
}
