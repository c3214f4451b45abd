package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	BaseHandler
	formService services.FormService
}

func NewFormHandler(formService services.FormService, logger utils.Logger) *FormHandler {
	return &FormHandler{
		BaseHandler: NewBaseHandler(logger),
		formService: formService,
	}
}

type PublishFormRequest struct {
	IsPublished *bool `json:"isPublished" binding:"required"`
}

type QuestionTypeRequest struct {
	Type models.QuestionType `json:"type" binding:"required"`
}

type ReorderQuestionsRequest struct {
	QuestionIDs []string `json:"questionIds" binding:"required"`
}

// CreateForm creates a new form
// @Summary Create form
// @Description Creates a draft form owned by the caller. Questions are normalised and validated.
// @Tags forms
// @Accept json
// @Produce json
// @Param form body services.CreateFormRequest true "Form data"
// @Success 201 {object} models.Form
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /forms [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	h.LogRequest(c, "Creating form")

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req services.CreateFormRequest
	if !h.bindJSON(c, &req) {
		return
	}

	form, err := h.formService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, form)
}

// ListForms lists the caller's forms
// @Summary List forms
// @Description Lists forms owned by the caller with response counts and completion rates
// @Tags forms
// @Produce json
// @Param search query string false "Title or description contains"
// @Param status query string false "draft or published"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} services.FormListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /forms [get]
func (h *FormHandler) ListForms(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var pagination repositories.Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, services.CodeValidationFailed, "Invalid pagination", err, err.Error())
		return
	}

	req := services.ListFormsRequest{
		Search:     c.Query("search"),
		Pagination: pagination,
	}
	if status := c.Query("status"); status != "" {
		formStatus := models.FormStatus(status)
		if formStatus != models.FormStatusDraft && formStatus != models.FormStatusPublished {
			h.RespondWithError(c, http.StatusBadRequest, services.CodeValidationFailed, "Invalid status", nil, status)
			return
		}
		req.Status = &formStatus
	}

	result, err := h.formService.List(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetForm retrieves a form. The owner sees the whole document, other callers
// the public projection of a published form.
// @Summary Get form
// @Tags forms
// @Produce json
// @Param id path uint true "Form ID"
// @Param preview query bool false "Do not count this visit as a view"
// @Success 200 {object} services.FormView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	preview := c.Query("preview") == "true"
	view, err := h.formService.Get(c.Request.Context(), id, currentUserID(c), preview)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetPublicForm serves the respondent view of a published form
// @Summary Get public form
// @Tags public
// @Produce json
// @Param id path uint true "Form ID"
// @Success 200 {object} models.PublicForm
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /public/forms/{id} [get]
func (h *FormHandler) GetPublicForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	form, err := h.formService.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// UpdateForm updates a form
// @Summary Update form
// @Tags forms
// @Accept json
// @Produce json
// @Param id path uint true "Form ID"
// @Param form body services.UpdateFormRequest true "Fields to change"
// @Success 200 {object} models.Form
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /forms/{id} [put]
func (h *FormHandler) UpdateForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating form", "form_id", id)

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req services.UpdateFormRequest
	if !h.bindJSON(c, &req) {
		return
	}

	form, err := h.formService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// DeleteForm deletes a form and its responses
// @Summary Delete form
// @Tags forms
// @Param id path uint true "Form ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting form", "form_id", id)

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	if err := h.formService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Form deleted successfully", nil)
}

// PublishForm publishes or unpublishes a form
// @Summary Toggle publish state
// @Tags forms
// @Accept json
// @Produce json
// @Param id path uint true "Form ID"
// @Param body body PublishFormRequest true "Target state"
// @Success 200 {object} SuccessResponse{data=models.Form}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /forms/{id}/publish [patch]
func (h *FormHandler) PublishForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req PublishFormRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Changing publish state", "form_id", id, "publish", *req.IsPublished)

	form, err := h.formService.SetPublished(c.Request.Context(), id, *req.IsPublished, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	message := "Form unpublished successfully"
	if form.Settings.IsPublished {
		message = "Form published successfully"
	}
	h.RespondWithSuccess(c, http.StatusOK, message, form)
}

// DuplicateForm copies a form as a new draft
// @Summary Duplicate form
// @Tags forms
// @Produce json
// @Param id path uint true "Form ID"
// @Success 201 {object} models.Form
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id}/duplicate [post]
func (h *FormHandler) DuplicateForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	form, err := h.formService.Duplicate(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, form)
}

// ===== QUESTION EDITING =====

// AddQuestion appends a default question of the requested type
// @Summary Add question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Form ID"
// @Param body body QuestionTypeRequest true "Question type"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Router /forms/{id}/questions [post]
func (h *FormHandler) AddQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req QuestionTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	question, err := h.formService.AddQuestion(c.Request.Context(), id, req.Type, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// @Summary Duplicate question
// @Tags questions
// @Produce json
// @Param id path uint true "Form ID"
// @Param question_id path string true "Question ID"
// @Success 201 {object} models.Question
// @Router /forms/{id}/questions/{question_id}/duplicate [post]
func (h *FormHandler) DuplicateQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	question, err := h.formService.DuplicateQuestion(c.Request.Context(), id, questionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ChangeQuestionType swaps a question's type, keeping its shared fields
// @Summary Change question type
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Form ID"
// @Param question_id path string true "Question ID"
// @Param body body QuestionTypeRequest true "New type"
// @Success 200 {object} models.Question
// @Router /forms/{id}/questions/{question_id} [patch]
func (h *FormHandler) ChangeQuestionType(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	var req QuestionTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	question, err := h.formService.ChangeQuestionType(c.Request.Context(), id, questionID, req.Type, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// EditQuestion applies one builder edit to a question's options, categories,
// items, blanks or sub-questions
// @Summary Edit question config
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Form ID"
// @Param question_id path string true "Question ID"
// @Param body body services.QuestionEditRequest true "Edit"
// @Success 200 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /forms/{id}/questions/{question_id}/edits [post]
func (h *FormHandler) EditQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	var req services.QuestionEditRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Editing question", "form_id", id, "question_id", questionID, "action", req.Action)

	question, err := h.formService.EditQuestion(c.Request.Context(), id, questionID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// @Summary Remove question
// @Tags questions
// @Param id path uint true "Form ID"
// @Param question_id path string true "Question ID"
// @Success 200 {object} SuccessResponse
// @Router /forms/{id}/questions/{question_id} [delete]
func (h *FormHandler) RemoveQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	if err := h.formService.RemoveQuestion(c.Request.Context(), id, questionID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question removed successfully", nil)
}

// ReorderQuestions sets the question order to the given permutation of ids
// @Summary Reorder questions
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Form ID"
// @Param body body ReorderQuestionsRequest true "Question ids in their new order"
// @Success 200 {object} models.Form
// @Router /forms/{id}/questions/order [put]
func (h *FormHandler) ReorderQuestions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req ReorderQuestionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	form, err := h.formService.ReorderQuestions(c.Request.Context(), id, req.QuestionIDs, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}
