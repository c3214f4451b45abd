package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResponseHandler struct {
	BaseHandler
	responseService services.ResponseService
	exportService   services.ExportService
}

func NewResponseHandler(responseService services.ResponseService, exportService services.ExportService, logger utils.Logger) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler:     NewBaseHandler(logger),
		responseService: responseService,
		exportService:   exportService,
	}
}

// SubmitResponse records a respondent's answers to a published form
// @Summary Submit response
// @Description Validates, scores and stores a response. Anonymous submissions are accepted when the form allows them.
// @Tags responses
// @Accept json
// @Produce json
// @Param response body services.SubmitResponseRequest true "Answers"
// @Success 201 {object} services.SubmitResponseResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /responses [post]
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	var req services.SubmitResponseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting response", "form_id", req.FormID, "answers", len(req.Answers))

	result, err := h.responseService.Submit(c.Request.Context(), &req, respondentFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListResponses lists the responses of a form with a summary
// @Summary List responses
// @Tags responses
// @Produce json
// @Param id path uint true "Form ID"
// @Param dateFrom query string false "Submitted on or after"
// @Param dateTo query string false "Submitted on or before"
// @Param email query string false "Respondent email contains"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} services.ResponseListResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id}/responses [get]
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	formID := h.parseIDParam(c, "id")
	if formID == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var pagination repositories.Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, services.CodeValidationFailed, "Invalid pagination", err, err.Error())
		return
	}

	req := services.ListResponsesRequest{
		Email:      c.Query("email"),
		Pagination: pagination,
	}

	var err error
	if req.DateFrom, err = parseDateQuery(c, "dateFrom"); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, services.CodeValidationFailed, err.Error(), err)
		return
	}
	if req.DateTo, err = parseDateQuery(c, "dateTo"); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, services.CodeValidationFailed, err.Error(), err)
		return
	}

	result, err := h.responseService.List(c.Request.Context(), formID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportResponses downloads every response of a form as a spreadsheet
// @Summary Export responses
// @Tags responses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Form ID"
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id}/responses/export [get]
func (h *ResponseHandler) ExportResponses(c *gin.Context) {
	formID := h.parseIDParam(c, "id")
	if formID == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting responses", "form_id", formID)

	data, filename, err := h.exportService.ExportResponses(c.Request.Context(), formID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// @Summary Get response
// @Tags responses
// @Produce json
// @Param id path uint true "Response ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /responses/{id} [get]
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	response, err := h.responseService.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Delete response
// @Tags responses
// @Param id path uint true "Response ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /responses/{id} [delete]
func (h *ResponseHandler) DeleteResponse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting response", "response_id", id)

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	if err := h.responseService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Response deleted successfully", nil)
}
