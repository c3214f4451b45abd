package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownQuestionType = errors.New("unknown question type")

// ImageRef points at an uploaded image. It decodes from a plain URL string
// or from an object carrying url/secure_url and publicId/public_id.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		*r = ImageRef{URL: url}
		return nil
	}
	var obj struct {
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"publicId"`
		PublicID2 string `json:"public_id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("image reference must be a string or an object: %w", err)
	}
	r.URL = obj.URL
	if r.URL == "" {
		r.URL = obj.SecureURL
	}
	r.PublicID = obj.PublicID
	if r.PublicID == "" {
		r.PublicID = obj.PublicID2
	}
	return nil
}

// IsZero reports whether the reference points nowhere.
func (r *ImageRef) IsZero() bool {
	return r == nil || strings.TrimSpace(r.URL) == ""
}

// Scoring controls automated grading of one question.
type Scoring struct {
	Enabled bool    `json:"enabled"`
	Points  float64 `json:"points" validate:"gte=0"`
}

// DefaultPoints is used when a question does not state its points.
const DefaultPoints = 1

// MaxScore is the most a question can earn. Zero points count as one.
func (s Scoring) MaxScore() float64 {
	if s.Points > 0 {
		return s.Points
	}
	return DefaultPoints
}

// Question is one entry of a form. Config always holds the variant that
// matches Type.
type Question struct {
	ID          string         `json:"id"`
	Type        QuestionType   `json:"type" validate:"required,question_type"`
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description,omitempty" validate:"max=1000"`
	Image       *ImageRef      `json:"image,omitempty"`
	Required    bool           `json:"required"`
	Order       int            `json:"order"`
	Config      QuestionConfig `json:"config"`
	Scoring     Scoring        `json:"scoring"`
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string          `json:"id"`
		Type        QuestionType    `json:"type"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Image       *ImageRef       `json:"image"`
		Required    *bool           `json:"required"`
		Order       int             `json:"order"`
		Config      json.RawMessage `json:"config"`
		Scoring     *struct {
			Enabled bool     `json:"enabled"`
			Points  *float64 `json:"points"`
		} `json:"scoring"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cfg, err := DecodeConfig(raw.Type, raw.Config)
	if err != nil {
		return fmt.Errorf("question %q: %w", raw.ID, err)
	}

	*q = Question{
		ID:          raw.ID,
		Type:        raw.Type,
		Title:       raw.Title,
		Description: raw.Description,
		Image:       raw.Image,
		Required:    true,
		Order:       raw.Order,
		Config:      cfg,
		Scoring:     Scoring{Points: DefaultPoints},
	}
	if raw.Required != nil {
		q.Required = *raw.Required
	}
	if raw.Scoring != nil {
		q.Scoring.Enabled = raw.Scoring.Enabled
		if raw.Scoring.Points != nil {
			q.Scoring.Points = *raw.Scoring.Points
		}
	}
	return nil
}

// MaxScore is the most this question can earn when scoring is enabled.
func (q *Question) MaxScore() float64 {
	return q.Scoring.MaxScore()
}

// Clone returns a deep copy of the question.
func (q *Question) Clone() (*Question, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	var clone Question
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}
