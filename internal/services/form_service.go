package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/form-service/internal/builder"
	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/cloze"
	"github.com/SAP-F-2025/form-service/internal/metrics"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"gorm.io/gorm"
)

type formService struct {
	forms     repositories.FormRepository
	responses repositories.ResponseRepository
	tx        repositories.TransactionManager
	cache     *cache.FormCache
	notifier  NotificationEventService
	metrics   *metrics.Metrics
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewFormService(
	forms repositories.FormRepository,
	responses repositories.ResponseRepository,
	tx repositories.TransactionManager,
	formCache *cache.FormCache,
	notifier NotificationEventService,
	m *metrics.Metrics,
	validator *validator.Validator,
	logger *slog.Logger,
) FormService {
	return &formService{
		forms:     forms,
		responses: responses,
		tx:        tx,
		cache:     formCache,
		notifier:  notifier,
		metrics:   m,
		validator: validator,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "form"),
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *formService) Create(ctx context.Context, req *CreateFormRequest, ownerID string) (*models.Form, error) {
	op := s.opLogger.WithOperation(ctx, "create_form", ownerID)

	if err := s.validator.ValidateStruct(req); err != nil {
		op.LogResult(0, err)
		return nil, err
	}

	form := &models.Form{
		Title:       req.Title,
		Description: req.Description,
		HeaderImage: req.HeaderImage,
		OwnerID:     ownerID,
		Questions:   prepareQuestions(req.Questions),
		Settings:    models.DefaultFormSettings(),
	}
	req.Settings.Apply(&form.Settings)

	if err := s.validator.ValidateForm(form); err != nil {
		op.LogResult(0, err)
		return nil, err
	}

	if err := s.forms.Create(ctx, nil, form); err != nil {
		op.LogResult(0, err)
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	op.LogResult(form.ID, nil)
	return form, nil
}

// Get returns the full form to its owner. Everybody else gets the public
// projection of a published form, and such a visit counts as a view unless
// it is a preview.
func (s *formService) Get(ctx context.Context, id uint, viewerID string, preview bool) (*FormView, error) {
	form, err := s.getForm(ctx, id)
	if err != nil {
		return nil, err
	}

	if form.IsOwnedBy(viewerID) {
		form.ResponseCount, err = s.responses.CountByForm(ctx, nil, id)
		if err != nil {
			return nil, fmt.Errorf("failed to count responses: %w", err)
		}
		return &FormView{IsOwner: true, Form: form}, nil
	}

	if !form.Settings.IsPublished {
		return nil, NewPermissionError(viewerID, id, "form", "read")
	}
	if !preview {
		s.recordView(ctx, id)
	}
	return &FormView{Public: publicProjection(form)}, nil
}

// GetPublic serves the respondent view of a published form and counts a
// view. The projection is cached; the view count never is.
func (s *formService) GetPublic(ctx context.Context, id uint) (*models.PublicForm, error) {
	if public, ok := s.cache.GetPublic(ctx, id); ok {
		s.recordView(ctx, id)
		return public, nil
	}

	form, err := s.getForm(ctx, id)
	if err != nil {
		return nil, err
	}
	if !form.Settings.IsPublished {
		return nil, ErrFormNotPublished
	}

	public := publicProjection(form)
	s.cache.SetPublic(ctx, public)
	s.recordView(ctx, id)
	return public, nil
}

func (s *formService) List(ctx context.Context, ownerID string, req *ListFormsRequest) (*FormListResponse, error) {
	filters := repositories.FormFilters{
		OwnerID:    ownerID,
		Search:     req.Search,
		Status:     req.Status,
		Pagination: req.Pagination.Normalize(),
	}

	forms, total, err := s.forms.List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	ids := make([]uint, len(forms))
	for i, form := range forms {
		ids[i] = form.ID
	}
	counts, err := s.responses.CountByForms(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	summaries := make([]*FormSummary, len(forms))
	for i, form := range forms {
		summaries[i] = &FormSummary{
			ID:             form.ID,
			Title:          form.Title,
			Description:    form.Description,
			HeaderImage:    form.HeaderImage,
			Status:         form.Status(),
			QuestionCount:  len(form.Questions),
			ResponseCount:  counts[form.ID],
			CompletionRate: form.Analytics.CompletionRate(),
			Settings:       form.Settings,
			Analytics:      form.Analytics,
			PublishedAt:    form.PublishedAt,
			CreatedAt:      form.CreatedAt,
			UpdatedAt:      form.UpdatedAt,
		}
	}

	return &FormListResponse{
		Forms:      summaries,
		Pagination: repositories.NewPageMeta(total, filters.Pagination),
	}, nil
}

func (s *formService) Update(ctx context.Context, id uint, req *UpdateFormRequest, userID string) (*models.Form, error) {
	op := s.opLogger.WithOperation(ctx, "update_form", userID)

	if err := s.validator.ValidateStruct(req); err != nil {
		op.LogResult(id, err)
		return nil, err
	}

	form, err := s.getOwnedForm(ctx, id, userID, "update")
	if err != nil {
		op.LogResult(id, err)
		return nil, err
	}

	if req.Questions != nil {
		if err := s.checkQuestionsEditable(ctx, form); err != nil {
			op.LogResult(id, err)
			return nil, err
		}
		form.Questions = prepareQuestions(*req.Questions)
	}
	if req.Title != nil {
		form.Title = *req.Title
	}
	if req.Description != nil {
		form.Description = *req.Description
	}
	if req.HeaderImage != nil {
		form.HeaderImage = *req.HeaderImage
	}
	req.Settings.Apply(&form.Settings)

	if err := s.save(ctx, form); err != nil {
		op.LogResult(id, err)
		return nil, err
	}

	op.LogResult(id, nil)
	return form, nil
}

// Delete removes the form together with every response to it.
func (s *formService) Delete(ctx context.Context, id uint, userID string) error {
	op := s.opLogger.WithOperation(ctx, "delete_form", userID)

	if _, err := s.getOwnedForm(ctx, id, userID, "delete"); err != nil {
		op.LogResult(id, err)
		return err
	}

	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.responses.DeleteByForm(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete responses: %w", err)
		}
		if err := s.forms.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete form: %w", err)
		}
		return nil
	})
	if err != nil {
		op.LogResult(id, err)
		return err
	}

	s.cache.Invalidate(ctx, id)
	op.LogResult(id, nil)
	return nil
}

// SetPublished publishes or unpublishes a form. Publishing needs at least
// one question and a clean config check; the first publish stamps
// PublishedAt. Events fire only when the state actually changes.
func (s *formService) SetPublished(ctx context.Context, id uint, publish bool, userID string) (*models.Form, error) {
	op := s.opLogger.WithOperation(ctx, "set_published", userID)

	form, err := s.getOwnedForm(ctx, id, userID, "publish")
	if err != nil {
		op.LogResult(id, err)
		return nil, err
	}

	if publish {
		if len(form.Questions) == 0 {
			op.LogResult(id, ErrCannotPublishEmptyForm)
			return nil, ErrCannotPublishEmptyForm
		}
		if err := validator.ValidateQuestions(form.Questions); err != nil {
			op.LogResult(id, err)
			return nil, err
		}
	}

	changed := form.Settings.IsPublished != publish
	form.Settings.IsPublished = publish
	if publish && form.PublishedAt == nil {
		now := time.Now()
		form.PublishedAt = &now
	}

	if err := s.forms.Update(ctx, nil, form); err != nil {
		op.LogResult(id, err)
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	s.cache.Invalidate(ctx, id)

	if changed {
		if publish {
			s.metrics.ObservePublish()
			s.notifier.NotifyFormPublished(ctx, form)
		} else {
			s.notifier.NotifyFormUnpublished(ctx, form)
		}
	}

	op.LogResult(id, nil)
	return form, nil
}

// Duplicate copies a form the caller owns into a new draft. Every question
// gets a fresh id; analytics and responses are not copied.
func (s *formService) Duplicate(ctx context.Context, id uint, userID string) (*models.Form, error) {
	op := s.opLogger.WithOperation(ctx, "duplicate_form", userID)

	original, err := s.getOwnedForm(ctx, id, userID, "duplicate")
	if err != nil {
		op.LogResult(id, err)
		return nil, err
	}

	questions := make([]models.Question, len(original.Questions))
	for i := range original.Questions {
		clone, err := builder.WithFreshID(&original.Questions[i])
		if err != nil {
			op.LogResult(id, err)
			return nil, err
		}
		questions[i] = *clone
	}

	settings := original.Settings
	settings.IsPublished = false

	title := original.Title + " (Copy)"
	if len([]rune(title)) > 100 {
		title = string([]rune(title)[:100])
	}

	form := &models.Form{
		Title:       title,
		Description: original.Description,
		HeaderImage: original.HeaderImage,
		OwnerID:     userID,
		Questions:   questions,
		Settings:    settings,
	}
	if err := s.forms.Create(ctx, nil, form); err != nil {
		op.LogResult(id, err)
		return nil, fmt.Errorf("failed to duplicate form: %w", err)
	}

	op.LogResult(form.ID, nil)
	return form, nil
}

// ===== QUESTION EDITING =====

func (s *formService) AddQuestion(ctx context.Context, formID uint, questionType models.QuestionType, userID string) (*models.Question, error) {
	var added *models.Question
	_, err := s.editQuestions(ctx, formID, userID, "add_question", func(form *models.Form) error {
		q, err := builder.NewQuestion(questionType, len(form.Questions))
		if err != nil {
			return err
		}
		form.Questions = append(form.Questions, *q)
		added = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// DuplicateQuestion inserts a copy right after the original.
func (s *formService) DuplicateQuestion(ctx context.Context, formID uint, questionID, userID string) (*models.Question, error) {
	var copied *models.Question
	_, err := s.editQuestions(ctx, formID, userID, "duplicate_question", func(form *models.Form) error {
		index := questionIndex(form.Questions, questionID)
		if index < 0 {
			return ErrQuestionNotFound
		}
		clone, err := builder.Duplicate(&form.Questions[index])
		if err != nil {
			return err
		}

		questions := make([]models.Question, 0, len(form.Questions)+1)
		questions = append(questions, form.Questions[:index+1]...)
		questions = append(questions, *clone)
		questions = append(questions, form.Questions[index+1:]...)
		renumber(questions)

		form.Questions = questions
		copied = &questions[index+1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func (s *formService) ChangeQuestionType(ctx context.Context, formID uint, questionID string, questionType models.QuestionType, userID string) (*models.Question, error) {
	var changed *models.Question
	_, err := s.editQuestions(ctx, formID, userID, "change_question_type", func(form *models.Form) error {
		q, ok := form.Question(questionID)
		if !ok {
			return ErrQuestionNotFound
		}
		if err := builder.ChangeType(q, questionType); err != nil {
			return err
		}
		changed = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

// EditQuestion applies one builder edit to a question's config. The form is
// validated as a whole before it is saved.
func (s *formService) EditQuestion(ctx context.Context, formID uint, questionID string, req *QuestionEditRequest, userID string) (*models.Question, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var edited *models.Question
	_, err := s.editQuestions(ctx, formID, userID, "edit_question", func(form *models.Form) error {
		q, ok := form.Question(questionID)
		if !ok {
			return ErrQuestionNotFound
		}
		if err := applyQuestionEdit(q, req); err != nil {
			return err
		}
		edited = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

func (s *formService) RemoveQuestion(ctx context.Context, formID uint, questionID, userID string) error {
	_, err := s.editQuestions(ctx, formID, userID, "remove_question", func(form *models.Form) error {
		questions, found := builder.Remove(form.Questions, questionID)
		if !found {
			return ErrQuestionNotFound
		}
		form.Questions = questions
		return nil
	})
	return err
}

func (s *formService) ReorderQuestions(ctx context.Context, formID uint, questionIDs []string, userID string) (*models.Form, error) {
	return s.editQuestions(ctx, formID, userID, "reorder_questions", func(form *models.Form) error {
		questions, err := builder.Reorder(form.Questions, questionIDs)
		if err != nil {
			return err
		}
		form.Questions = questions
		return nil
	})
}

// ===== HELPER METHODS =====

// editQuestions loads an editable form, applies edit and saves the result
func (s *formService) editQuestions(ctx context.Context, formID uint, userID, operation string, edit func(form *models.Form) error) (*models.Form, error) {
	op := s.opLogger.WithOperation(ctx, operation, userID)

	form, err := s.getOwnedForm(ctx, formID, userID, "update")
	if err != nil {
		op.LogResult(formID, err)
		return nil, err
	}
	if err := s.checkQuestionsEditable(ctx, form); err != nil {
		op.LogResult(formID, err)
		return nil, err
	}
	if err := edit(form); err != nil {
		op.LogResult(formID, err)
		return nil, err
	}
	if err := s.save(ctx, form); err != nil {
		op.LogResult(formID, err)
		return nil, err
	}

	op.LogResult(formID, nil)
	return form, nil
}

// save validates and stores form and drops its cached projection
func (s *formService) save(ctx context.Context, form *models.Form) error {
	if err := s.validator.ValidateForm(form); err != nil {
		return err
	}
	if err := s.forms.Update(ctx, nil, form); err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}
	s.cache.Invalidate(ctx, form.ID)
	return nil
}

func (s *formService) getForm(ctx context.Context, id uint) (*models.Form, error) {
	form, err := s.forms.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	return form, nil
}

func (s *formService) getOwnedForm(ctx context.Context, id uint, userID, action string) (*models.Form, error) {
	form, err := s.getForm(ctx, id)
	if err != nil {
		return nil, err
	}
	if !form.IsOwnedBy(userID) {
		return nil, NewPermissionError(userID, id, "form", action)
	}
	return form, nil
}

// checkQuestionsEditable rejects question changes once a published form has
// collected responses, since stored answers refer to the question set.
func (s *formService) checkQuestionsEditable(ctx context.Context, form *models.Form) error {
	if !form.Settings.IsPublished {
		return nil
	}
	count, err := s.responses.CountByForm(ctx, nil, form.ID)
	if err != nil {
		return fmt.Errorf("failed to count responses: %w", err)
	}
	if count > 0 {
		return ErrFormQuestionsFrozen
	}
	return nil
}

func (s *formService) recordView(ctx context.Context, id uint) {
	if err := s.forms.IncrementViews(ctx, nil, id); err != nil {
		s.logger.Warn("Failed to record form view", "form_id", id, "error", err)
	}
}

// prepareQuestions gives every question a unique id and its position as
// order, and re-derives cloze blanks from the text.
func prepareQuestions(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		if q.ID == "" || seen[q.ID] {
			q.ID = builder.NewQuestionID()
		}
		seen[q.ID] = true
		q.Order = i

		if c, ok := q.Config.(*models.ClozeConfig); ok {
			q.Config = &models.ClozeConfig{Text: c.Text, Blanks: cloze.SyncBlanks(c.Text, c.Blanks)}
		}
		out[i] = q
	}
	return out
}

// publicProjection strips answer keys, including the seed answers written
// into cloze text.
func publicProjection(form *models.Form) *models.PublicForm {
	public := form.PublicData()
	for i := range public.Questions {
		if c, ok := public.Questions[i].Config.(*models.ClozeConfig); ok {
			c.Text = cloze.Mask(c.Text)
		}
	}
	return public
}

func questionIndex(questions []models.Question, id string) int {
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}

func renumber(questions []models.Question) {
	for i := range questions {
		questions[i].Order = i
	}
}
