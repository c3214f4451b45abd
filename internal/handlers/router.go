package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/metrics"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	formHandler     *FormHandler
	responseHandler *ResponseHandler
	auth            *Authenticator
	metrics         *metrics.Metrics
}

// NewHandlerManager wires the handlers. m may be nil to disable /metrics.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	auth *Authenticator,
	m *metrics.Metrics,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		formHandler:     NewFormHandler(serviceManager.Form(), logger),
		responseHandler: NewResponseHandler(serviceManager.Response(), serviceManager.Export(), logger),
		auth:            auth,
		metrics:         m,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	if hm.metrics != nil {
		router.Use(hm.metrics.Middleware())
		router.GET("/metrics", hm.metrics.Handler())
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Routes anybody may call; a valid token still identifies the caller
		open := v1.Group("", hm.auth.OptionalAuth())
		{
			open.GET("/forms/:id", hm.formHandler.GetForm)
			open.GET("/public/forms/:id", hm.formHandler.GetPublicForm)
			open.POST("/responses", hm.responseHandler.SubmitResponse)
		}

		forms := v1.Group("/forms", hm.auth.RequireAuth())
		{
			forms.POST("", hm.formHandler.CreateForm)
			forms.GET("", hm.formHandler.ListForms)
			forms.PUT("/:id", hm.formHandler.UpdateForm)
			forms.DELETE("/:id", hm.formHandler.DeleteForm)
			forms.PATCH("/:id/publish", hm.formHandler.PublishForm)
			forms.POST("/:id/duplicate", hm.formHandler.DuplicateForm)

			// Question editing
			forms.POST("/:id/questions", hm.formHandler.AddQuestion)
			forms.POST("/:id/questions/:question_id/duplicate", hm.formHandler.DuplicateQuestion)
			forms.PATCH("/:id/questions/:question_id", hm.formHandler.ChangeQuestionType)
			forms.POST("/:id/questions/:question_id/edits", hm.formHandler.EditQuestion)
			forms.DELETE("/:id/questions/:question_id", hm.formHandler.RemoveQuestion)
			forms.PUT("/:id/questions/order", hm.formHandler.ReorderQuestions)

			// Responses of a form
			forms.GET("/:id/responses", hm.responseHandler.ListResponses)
			forms.GET("/:id/responses/export", hm.responseHandler.ExportResponses)
		}

		responses := v1.Group("/responses", hm.auth.RequireAuth())
		{
			responses.GET("/:id", hm.responseHandler.GetResponse)
			responses.DELETE("/:id", hm.responseHandler.DeleteResponse)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "form-service",
		})
	})
}
