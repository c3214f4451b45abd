package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventFormPublished     EventType = "form.published"
	EventFormUnpublished   EventType = "form.unpublished"
	EventResponseSubmitted EventType = "response.submitted"
)

const (
	eventSource  = "form-service"
	eventVersion = "1.0"
)

// Event is the envelope of every message on the form events topic
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Version   string         `json:"version"`
	Data      any            `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type FormPublishedEvent struct {
	FormID        uint      `json:"form_id"`
	FormTitle     string    `json:"form_title"`
	OwnerID       string    `json:"owner_id"`
	QuestionCount int       `json:"question_count"`
	PublishedAt   time.Time `json:"published_at"`
}

type FormUnpublishedEvent struct {
	FormID    uint   `json:"form_id"`
	FormTitle string `json:"form_title"`
	OwnerID   string `json:"owner_id"`
}

type ResponseSubmittedEvent struct {
	ResponseID           uint      `json:"response_id"`
	FormID               uint      `json:"form_id"`
	FormTitle            string    `json:"form_title"`
	OwnerID              string    `json:"owner_id"`
	RespondentID         *string   `json:"respondent_id,omitempty"`
	RespondentEmail      string    `json:"respondent_email,omitempty"`
	CompletionPercentage int       `json:"completion_percentage"`
	TotalScore           *float64  `json:"total_score,omitempty"`
	MaxTotalScore        *float64  `json:"max_total_score,omitempty"`
	ScorePercentage      *int      `json:"score_percentage,omitempty"`
	SubmittedAt          time.Time `json:"submitted_at"`
}

func newEvent(t EventType, data any) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewFormPublishedEvent(formID uint, title, ownerID string, questionCount int, publishedAt time.Time) *Event {
	return newEvent(EventFormPublished, FormPublishedEvent{
		FormID:        formID,
		FormTitle:     title,
		OwnerID:       ownerID,
		QuestionCount: questionCount,
		PublishedAt:   publishedAt,
	})
}

func NewFormUnpublishedEvent(formID uint, title, ownerID string) *Event {
	return newEvent(EventFormUnpublished, FormUnpublishedEvent{
		FormID:    formID,
		FormTitle: title,
		OwnerID:   ownerID,
	})
}

func NewResponseSubmittedEvent(data ResponseSubmittedEvent) *Event {
	return newEvent(EventResponseSubmitted, data)
}

// GenerateEventID returns a unique event id
func GenerateEventID() string {
	return "evt_" + uuid.NewString()
}
