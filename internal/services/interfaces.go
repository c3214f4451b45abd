package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/scoring"
)

// ===== FORM REQUESTS =====

// SettingsInput carries the settings a caller wants to change. Nil fields
// keep their current value. Publishing has its own operation.
type SettingsInput struct {
	AllowAnonymous           *bool   `json:"allowAnonymous"`
	CollectEmail             *bool   `json:"collectEmail"`
	ShowProgressBar          *bool   `json:"showProgressBar"`
	AllowMultipleSubmissions *bool   `json:"allowMultipleSubmissions"`
	SubmissionMessage        *string `json:"submissionMessage" validate:"omitempty,max=200"`
}

// Apply merges the input into settings
func (in *SettingsInput) Apply(settings *models.FormSettings) {
	if in == nil {
		return
	}
	if in.AllowAnonymous != nil {
		settings.AllowAnonymous = *in.AllowAnonymous
	}
	if in.CollectEmail != nil {
		settings.CollectEmail = *in.CollectEmail
	}
	if in.ShowProgressBar != nil {
		settings.ShowProgressBar = *in.ShowProgressBar
	}
	if in.AllowMultipleSubmissions != nil {
		settings.AllowMultipleSubmissions = *in.AllowMultipleSubmissions
	}
	if in.SubmissionMessage != nil {
		settings.SubmissionMessage = *in.SubmissionMessage
	}
}

type CreateFormRequest struct {
	Title       string            `json:"title" validate:"required,min=1,max=100"`
	Description string            `json:"description" validate:"max=500"`
	HeaderImage string            `json:"headerImage" validate:"omitempty,max=500"`
	Questions   []models.Question `json:"questions"`
	Settings    *SettingsInput    `json:"settings"`
}

// UpdateFormRequest replaces the fields that are present. A nil Questions
// keeps the question set; an empty list clears it.
type UpdateFormRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string            `json:"description" validate:"omitempty,max=500"`
	HeaderImage *string            `json:"headerImage" validate:"omitempty,max=500"`
	Questions   *[]models.Question `json:"questions"`
	Settings    *SettingsInput     `json:"settings"`
}

type ListFormsRequest struct {
	Search string             `json:"search"`
	Status *models.FormStatus `json:"status"`
	repositories.Pagination
}

type FormListResponse struct {
	Forms      []*FormSummary        `json:"forms"`
	Pagination repositories.PageMeta `json:"pagination"`
}

// FormSummary is a form in a listing, without its questions
type FormSummary struct {
	ID             uint                 `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	HeaderImage    string               `json:"headerImage,omitempty"`
	Status         models.FormStatus    `json:"status"`
	QuestionCount  int                  `json:"questionCount"`
	ResponseCount  int64                `json:"responseCount"`
	CompletionRate int                  `json:"completionRate"`
	Settings       models.FormSettings  `json:"settings"`
	Analytics      models.FormAnalytics `json:"analytics"`
	PublishedAt    *time.Time           `json:"publishedAt,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// FormView is what a caller may see of one form: the full document for the
// owner, the public projection for everybody else.
type FormView struct {
	IsOwner bool               `json:"isOwner"`
	Form    *models.Form       `json:"form,omitempty"`
	Public  *models.PublicForm `json:"publicForm,omitempty"`
}

// ===== RESPONSE REQUESTS =====

// Respondent identifies who submits. An empty UserID is an anonymous
// respondent.
type Respondent struct {
	UserID    string
	Email     string
	Name      string
	IPAddress string
	UserAgent string
}

type SubmitResponseRequest struct {
	FormID          uint            `json:"formId" validate:"required"`
	Answers         []models.Answer `json:"answers"`
	StartedAt       *time.Time      `json:"startedAt"`
	TotalTimeSpent  float64         `json:"totalTimeSpent" validate:"gte=0"`
	RespondentEmail string          `json:"respondentEmail" validate:"omitempty,email"`
	RespondentName  string          `json:"respondentName" validate:"max=100"`
	Metadata        map[string]any  `json:"metadata"`
}

type SubmitResponseResult struct {
	ResponseID           uint                   `json:"responseId"`
	Message              string                 `json:"message"`
	CompletionPercentage int                    `json:"completionPercentage"`
	IsComplete           bool                   `json:"isComplete"`
	Score                *scoring.ResponseScore `json:"score,omitempty"`
}

type ListResponsesRequest struct {
	DateFrom *time.Time `json:"dateFrom"`
	DateTo   *time.Time `json:"dateTo"`
	Email    string     `json:"email"`
	repositories.Pagination
}

type ResponseListResponse struct {
	Responses  []*models.Response           `json:"responses"`
	Pagination repositories.PageMeta        `json:"pagination"`
	Summary    repositories.ResponseSummary `json:"summary"`
}

// ===== SERVICES =====

type FormService interface {
	Create(ctx context.Context, req *CreateFormRequest, ownerID string) (*models.Form, error)
	Get(ctx context.Context, id uint, viewerID string, preview bool) (*FormView, error)
	GetPublic(ctx context.Context, id uint) (*models.PublicForm, error)
	List(ctx context.Context, ownerID string, req *ListFormsRequest) (*FormListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateFormRequest, userID string) (*models.Form, error)
	Delete(ctx context.Context, id uint, userID string) error
	SetPublished(ctx context.Context, id uint, publish bool, userID string) (*models.Form, error)
	Duplicate(ctx context.Context, id uint, userID string) (*models.Form, error)

	// Question editing
	AddQuestion(ctx context.Context, formID uint, questionType models.QuestionType, userID string) (*models.Question, error)
	DuplicateQuestion(ctx context.Context, formID uint, questionID, userID string) (*models.Question, error)
	ChangeQuestionType(ctx context.Context, formID uint, questionID string, questionType models.QuestionType, userID string) (*models.Question, error)
	EditQuestion(ctx context.Context, formID uint, questionID string, req *QuestionEditRequest, userID string) (*models.Question, error)
	RemoveQuestion(ctx context.Context, formID uint, questionID, userID string) error
	ReorderQuestions(ctx context.Context, formID uint, questionIDs []string, userID string) (*models.Form, error)
}

type ResponseService interface {
	Submit(ctx context.Context, req *SubmitResponseRequest, respondent Respondent) (*SubmitResponseResult, error)
	List(ctx context.Context, formID uint, req *ListResponsesRequest, userID string) (*ResponseListResponse, error)
	Get(ctx context.Context, id uint, userID string) (*models.Response, error)
	Delete(ctx context.Context, id uint, userID string) error
}

type ExportService interface {
	ExportResponses(ctx context.Context, formID uint, userID string) ([]byte, string, error)
}
