package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/form-service/internal/metrics"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/submission"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"gorm.io/gorm"
)

type responseService struct {
	forms     repositories.FormRepository
	responses repositories.ResponseRepository
	tx        repositories.TransactionManager
	evaluator *submission.Evaluator
	notifier  NotificationEventService
	metrics   *metrics.Metrics
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewResponseService(
	forms repositories.FormRepository,
	responses repositories.ResponseRepository,
	tx repositories.TransactionManager,
	evaluator *submission.Evaluator,
	notifier NotificationEventService,
	m *metrics.Metrics,
	validator *validator.Validator,
	logger *slog.Logger,
) ResponseService {
	return &responseService{
		forms:     forms,
		responses: responses,
		tx:        tx,
		evaluator: evaluator,
		notifier:  notifier,
		metrics:   m,
		validator: validator,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "response"),
	}
}

// Submit stores one response to a published form. The whole answer set is
// rejected when any required question is unanswered or any answer is
// malformed; nothing is stored in that case.
func (s *responseService) Submit(ctx context.Context, req *SubmitResponseRequest, respondent Respondent) (*SubmitResponseResult, error) {
	op := s.opLogger.WithOperation(ctx, "submit_response", respondent.UserID)

	result, err := s.submit(ctx, req, respondent)
	if err != nil {
		s.metrics.ObserveRejection(ErrorCode(err))
		op.LogResult(req.FormID, err)
		return nil, err
	}

	op.LogResult(req.FormID, nil)
	return result, nil
}

func (s *responseService) submit(ctx context.Context, req *SubmitResponseRequest, respondent Respondent) (*SubmitResponseResult, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	form, err := s.forms.GetByID(ctx, nil, req.FormID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if !form.Settings.IsPublished {
		return nil, ErrFormNotPublished
	}
	if respondent.UserID == "" && !form.Settings.AllowAnonymous {
		return nil, ErrAuthenticationRequired
	}

	evaluated, err := s.evaluator.Evaluate(form.Questions, req.Answers, req.TotalTimeSpent)
	if err != nil {
		return nil, err
	}

	response := buildResponse(form, req, respondent, evaluated)

	err = s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		current, err := s.forms.GetByIDForUpdate(ctx, tx, form.ID)
		if err != nil {
			return fmt.Errorf("failed to lock form: %w", err)
		}
		if respondent.UserID != "" && !current.Settings.AllowMultipleSubmissions {
			exists, err := s.responses.ExistsForRespondent(ctx, tx, form.ID, respondent.UserID)
			if err != nil {
				return fmt.Errorf("failed to check previous responses: %w", err)
			}
			if exists {
				return ErrMultipleSubmissionsNotAllowed
			}
		}
		if err := s.responses.Create(ctx, tx, response); err != nil {
			return fmt.Errorf("failed to create response: %w", err)
		}
		analytics := current.Analytics
		analytics.RecordSubmission(evaluated.TotalTimeSpent)
		if err := s.forms.UpdateAnalytics(ctx, tx, form.ID, analytics); err != nil {
			return fmt.Errorf("failed to update analytics: %w", err)
		}
		form.Analytics = analytics
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveSubmission(evaluated.Score.HasScores(), evaluated.Score.ScorePercentage)
	s.notifier.NotifyResponseSubmitted(ctx, form, response)

	result := &SubmitResponseResult{
		ResponseID:           response.ID,
		Message:              form.Settings.SubmissionMessage,
		CompletionPercentage: response.CompletionPercentage,
		IsComplete:           response.IsComplete,
	}
	if evaluated.Score.HasScores() {
		score := evaluated.Score
		result.Score = &score
	}
	return result, nil
}

// buildResponse assembles the stored document. An authenticated
// respondent's own email and name win over what the request carries.
func buildResponse(form *models.Form, req *SubmitResponseRequest, respondent Respondent, evaluated *submission.Result) *models.Response {
	now := time.Now()
	response := &models.Response{
		FormID:               form.ID,
		RespondentEmail:      req.RespondentEmail,
		RespondentName:       req.RespondentName,
		Answers:              evaluated.Answers,
		StartedAt:            now,
		SubmittedAt:          now,
		TotalTimeSpent:       evaluated.TotalTimeSpent,
		CompletionPercentage: evaluated.CompletionPercentage,
		IsComplete:           evaluated.IsComplete,
		IPAddress:            respondent.IPAddress,
		UserAgent:            respondent.UserAgent,
	}
	if req.StartedAt != nil && !req.StartedAt.After(now) {
		response.StartedAt = *req.StartedAt
	}
	if respondent.UserID != "" {
		userID := respondent.UserID
		response.RespondentID = &userID
		if respondent.Email != "" {
			response.RespondentEmail = respondent.Email
		}
		if respondent.Name != "" {
			response.RespondentName = respondent.Name
		}
	}
	if len(req.Metadata) > 0 {
		response.Metadata = req.Metadata
	}

	if evaluated.Score.HasScores() {
		total := evaluated.Score.TotalScore
		maxTotal := evaluated.Score.MaxTotalScore
		percentage := evaluated.Score.ScorePercentage
		response.TotalScore = &total
		response.MaxTotalScore = &maxTotal
		response.ScorePercentage = &percentage
	}
	return response
}

// List pages through the responses of a form the caller owns. Filters
// narrow the page; the summary always covers every response.
func (s *responseService) List(ctx context.Context, formID uint, req *ListResponsesRequest, userID string) (*ResponseListResponse, error) {
	if _, err := s.getOwnedForm(ctx, formID, userID); err != nil {
		return nil, err
	}

	filters := repositories.ResponseFilters{
		FormID:     formID,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		Email:      req.Email,
		Pagination: req.Pagination.Normalize(),
	}
	responses, total, err := s.responses.List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	summary, err := s.responses.Summary(ctx, nil, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize responses: %w", err)
	}

	return &ResponseListResponse{
		Responses:  responses,
		Pagination: repositories.NewPageMeta(total, filters.Pagination),
		Summary:    *summary,
	}, nil
}

func (s *responseService) Get(ctx context.Context, id uint, userID string) (*models.Response, error) {
	return s.getOwnedResponse(ctx, id, userID, "read")
}

func (s *responseService) Delete(ctx context.Context, id uint, userID string) error {
	op := s.opLogger.WithOperation(ctx, "delete_response", userID)

	if _, err := s.getOwnedResponse(ctx, id, userID, "delete"); err != nil {
		op.LogResult(id, err)
		return err
	}
	if err := s.responses.Delete(ctx, nil, id); err != nil {
		op.LogResult(id, err)
		return fmt.Errorf("failed to delete response: %w", err)
	}

	op.LogResult(id, nil)
	return nil
}

// ===== HELPER METHODS =====

func (s *responseService) getOwnedForm(ctx context.Context, formID uint, userID string) (*models.Form, error) {
	form, err := s.forms.GetByID(ctx, nil, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if !form.IsOwnedBy(userID) {
		return nil, NewPermissionError(userID, formID, "form", "read responses of")
	}
	return form, nil
}

// getOwnedResponse loads a response whose form belongs to userID
func (s *responseService) getOwnedResponse(ctx context.Context, id uint, userID, action string) (*models.Response, error) {
	response, err := s.responses.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	form, err := s.forms.GetByID(ctx, nil, response.FormID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil || !form.IsOwnedBy(userID) {
		return nil, NewPermissionError(userID, id, "response", action)
	}
	return response, nil
}
