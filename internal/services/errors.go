package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/builder"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Form specific errors
	ErrFormNotFound           = errors.New("form not found")
	ErrFormAccessDenied       = errors.New("access denied to form")
	ErrFormNotPublished       = errors.New("this form is not accepting responses")
	ErrCannotPublishEmptyForm = errors.New("cannot publish a form without questions")
	ErrFormQuestionsFrozen    = errors.New("questions of a published form with responses cannot be changed")
	ErrQuestionNotFound       = errors.New("question not found")

	// Response specific errors
	ErrResponseNotFound              = errors.New("response not found")
	ErrResponseAccessDenied          = errors.New("access denied to response")
	ErrMultipleSubmissionsNotAllowed = errors.New("you have already submitted a response to this form")
	ErrAuthenticationRequired        = errors.New("this form does not accept anonymous responses")
)

// Stable codes returned to API clients
const (
	CodeFormNotFound            = "FORM_NOT_FOUND"
	CodeAccessDenied            = "ACCESS_DENIED"
	CodeFormNotPublished        = "FORM_NOT_PUBLISHED"
	CodeCannotPublishEmptyForm  = "CANNOT_PUBLISH_EMPTY_FORM"
	CodeFormQuestionsFrozen     = "FORM_QUESTIONS_FROZEN"
	CodeQuestionNotFound        = "QUESTION_NOT_FOUND"
	CodeResponseNotFound        = "RESPONSE_NOT_FOUND"
	CodeMultipleSubmissions     = "MULTIPLE_SUBMISSIONS_NOT_ALLOWED"
	CodeAuthenticationRequired  = "AUTHENTICATION_REQUIRED"
	CodeValidationFailed        = "VALIDATION_ERROR"
	CodeUnknownQuestionType     = "UNKNOWN_QUESTION_TYPE"
	CodeInvalidBuilderOperation = "INVALID_BUILDER_OPERATION"
	CodeInternalError           = "INTERNAL_ERROR"
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %q cannot %s %s %d", pe.UserID, pe.Action, pe.Resource, pe.ResourceID)
}

// Unwrap lets errors.Is match the resource's access denied sentinel
func (pe *PermissionError) Unwrap() error {
	if pe.Resource == "response" {
		return ErrResponseAccessDenied
	}
	return ErrFormAccessDenied
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value any) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID string, resourceID uint, resource, action string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrFormNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrResponseNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrFormAccessDenied) ||
		errors.Is(err, ErrResponseAccessDenied) ||
		errors.Is(err, ErrAuthenticationRequired)
}

// isBuilderError reports an edit that does not fit the question it targets
func isBuilderError(err error) bool {
	for _, target := range []error{
		builder.ErrWrongQuestionType,
		builder.ErrOptionNotFound,
		builder.ErrCategoryNotFound,
		builder.ErrItemNotFound,
		builder.ErrBlankNotFound,
		builder.ErrSubQuestionNotFound,
		builder.ErrMinimumEntries,
		builder.ErrInvalidOrder,
		builder.ErrUnknownSubQuestionType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation checks if error represents a validation failure: bad request
// fields, broken question configs, invalid edits or a rejected submission
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, models.ErrUnknownQuestionType) || isBuilderError(err) {
		return true
	}
	var ve apperrors.ValidationErrors
	var ce apperrors.ConfigErrors
	var se *apperrors.SubmissionError
	return errors.As(err, &ve) || errors.As(err, &ce) || errors.As(err, &se)
}

// IsConflict checks if error represents a state conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrFormNotPublished) ||
		errors.Is(err, ErrCannotPublishEmptyForm) ||
		errors.Is(err, ErrFormQuestionsFrozen) ||
		errors.Is(err, ErrMultipleSubmissionsNotAllowed)
}

// ErrorCode maps a service error onto its API code
func ErrorCode(err error) string {
	var ce apperrors.ConfigErrors
	var se *apperrors.SubmissionError
	var ve apperrors.ValidationErrors
	switch {
	case errors.As(err, &ce):
		return string(ce.Code())
	case errors.As(err, &se):
		return string(se.Code())
	case errors.As(err, &ve):
		return CodeValidationFailed
	case errors.Is(err, models.ErrUnknownQuestionType):
		return CodeUnknownQuestionType
	case isBuilderError(err):
		return CodeInvalidBuilderOperation
	case errors.Is(err, ErrFormNotFound):
		return CodeFormNotFound
	case errors.Is(err, ErrFormAccessDenied), errors.Is(err, ErrResponseAccessDenied):
		return CodeAccessDenied
	case errors.Is(err, ErrFormNotPublished):
		return CodeFormNotPublished
	case errors.Is(err, ErrCannotPublishEmptyForm):
		return CodeCannotPublishEmptyForm
	case errors.Is(err, ErrFormQuestionsFrozen):
		return CodeFormQuestionsFrozen
	case errors.Is(err, ErrQuestionNotFound):
		return CodeQuestionNotFound
	case errors.Is(err, ErrResponseNotFound):
		return CodeResponseNotFound
	case errors.Is(err, ErrMultipleSubmissionsNotAllowed):
		return CodeMultipleSubmissions
	case errors.Is(err, ErrAuthenticationRequired):
		return CodeAuthenticationRequired
	case errors.Is(err, ErrValidationFailed):
		return CodeValidationFailed
	}
	return CodeInternalError
}
