package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/form-service/internal/builder"
	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFormHandler_CreateForm(t *testing.T) {
	t.Run("CreatesForCaller", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("Create", mock.Anything, mock.MatchedBy(func(req *services.CreateFormRequest) bool {
			return req.Title == "Survey" && len(req.Questions) == 1
		}), "owner-1").Return(&models.Form{ID: 7, Title: "Survey", OwnerID: "owner-1"}, nil)

		rec := s.do(http.MethodPost, "/api/v1/forms",
			`{"title":"Survey","questions":[{"type":"mcq","title":"Pick one"}]}`, "owner-token")

		assert.Equal(t, http.StatusCreated, rec.Code)
		var form models.Form
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &form))
		assert.Equal(t, uint(7), form.ID)
		s.assertExpectations(t)
	})

	t.Run("RequiresToken", func(t *testing.T) {
		s := newTestServer()

		rec := s.do(http.MethodPost, "/api/v1/forms", `{"title":"Survey"}`, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, services.CodeAuthenticationRequired, decodeError(t, rec).Code)
		s.forms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RejectsUnknownToken", func(t *testing.T) {
		s := newTestServer()

		rec := s.do(http.MethodPost, "/api/v1/forms", `{"title":"Survey"}`, "forged")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid or expired token", decodeError(t, rec).Message)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		s := newTestServer()

		rec := s.do(http.MethodPost, "/api/v1/forms", `{"title":`, "owner-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, services.CodeValidationFailed, decodeError(t, rec).Code)
	})

	t.Run("BrokenQuestionConfig", func(t *testing.T) {
		s := newTestServer()
		configErr := apperrors.ConfigErrors{{
			Reason:       apperrors.ReasonMissingOptions,
			Message:      "needs at least one option",
			QuestionType: "mcq",
		}}
		s.forms.On("Create", mock.Anything, mock.Anything, "owner-1").
			Return(nil, fmt.Errorf("failed to create form: %w", configErr))

		rec := s.do(http.MethodPost, "/api/v1/forms", `{"title":"Survey"}`, "owner-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, string(apperrors.CodeInvalidQuestionConfig), body.Code)
		assert.NotNil(t, body.Details)
	})
}

func TestFormHandler_ListForms(t *testing.T) {
	t.Run("PassesFilters", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("List", mock.Anything, "owner-1", mock.MatchedBy(func(req *services.ListFormsRequest) bool {
			return req.Search == "quiz" && req.Status != nil && *req.Status == models.FormStatusPublished &&
				req.Page == 2 && req.Limit == 5
		})).Return(&services.FormListResponse{Forms: []*services.FormSummary{}}, nil)

		rec := s.do(http.MethodGet, "/api/v1/forms?search=quiz&status=published&page=2&limit=5", "", "owner-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		s.assertExpectations(t)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		s := newTestServer()

		rec := s.do(http.MethodGet, "/api/v1/forms?status=archived", "", "owner-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		s.forms.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFormHandler_GetForm(t *testing.T) {
	t.Run("AnonymousVisitor", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("Get", mock.Anything, uint(3), "", false).
			Return(&services.FormView{Public: &models.PublicForm{ID: 3, Title: "Quiz"}}, nil)

		rec := s.do(http.MethodGet, "/api/v1/forms/3", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var view services.FormView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.False(t, view.IsOwner)
		require.NotNil(t, view.Public)
		assert.Equal(t, "Quiz", view.Public.Title)
		s.assertExpectations(t)
	})

	t.Run("OwnerPreview", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("Get", mock.Anything, uint(3), "owner-1", true).
			Return(&services.FormView{IsOwner: true, Form: &models.Form{ID: 3}}, nil)

		rec := s.do(http.MethodGet, "/api/v1/forms/3?preview=true", "", "owner-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		s.assertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		s := newTestServer()

		rec := s.do(http.MethodGet, "/api/v1/forms/abc", "", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid id", decodeError(t, rec).Message)
	})

	t.Run("Missing", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("Get", mock.Anything, uint(9), "", false).
			Return(nil, fmt.Errorf("failed to get form: %w", services.ErrFormNotFound))

		rec := s.do(http.MethodGet, "/api/v1/forms/9", "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, services.CodeFormNotFound, decodeError(t, rec).Code)
	})
}

func TestFormHandler_GetPublicForm(t *testing.T) {
	t.Run("Draft", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("GetPublic", mock.Anything, uint(4)).Return(nil, services.ErrFormNotPublished)

		rec := s.do(http.MethodGet, "/api/v1/public/forms/4", "", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, services.CodeFormNotPublished, decodeError(t, rec).Code)
	})

	t.Run("Published", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("GetPublic", mock.Anything, uint(4)).Return(&models.PublicForm{ID: 4, Title: "Quiz"}, nil)

		rec := s.do(http.MethodGet, "/api/v1/public/forms/4", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"title":"Quiz"`)
	})
}

func TestFormHandler_UpdateAndDelete(t *testing.T) {
	t.Run("UpdateByStranger", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("Update", mock.Anything, uint(5), mock.Anything, "owner-1").
			Return(nil, services.NewPermissionError("owner-1", 5, "form", "update"))

		rec := s.do(http.MethodPut, "/api/v1/forms/5", `{"title":"Renamed"}`, "owner-token")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, services.CodeAccessDenied, body.Code)
		assert.Equal(t, map[string]interface{}{"resource": "form", "action": "update"}, body.Details)
	})

	t.Run("QuestionsFrozen", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("Update", mock.Anything, uint(5), mock.Anything, "owner-1").
			Return(nil, services.ErrFormQuestionsFrozen)

		rec := s.do(http.MethodPut, "/api/v1/forms/5", `{"questions":[]}`, "owner-token")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, services.CodeFormQuestionsFrozen, decodeError(t, rec).Code)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("Delete", mock.Anything, uint(5), "owner-1").Return(nil)

		rec := s.do(http.MethodDelete, "/api/v1/forms/5", "", "owner-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Form deleted successfully")
		s.assertExpectations(t)
	})

	t.Run("InternalFailure", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("Delete", mock.Anything, uint(5), "owner-1").Return(fmt.Errorf("failed to delete form: connection reset"))

		rec := s.do(http.MethodDelete, "/api/v1/forms/5", "", "owner-token")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, services.CodeInternalError, body.Code)
		assert.Equal(t, "Internal server error", body.Message)
	})
}

func TestFormHandler_PublishForm(t *testing.T) {
	t.Run("Publish", func(t *testing.T) {
		s := newTestServer()
		form := &models.Form{ID: 6}
		form.Settings.IsPublished = true
		s.forms.On("SetPublished", mock.Anything, uint(6), true, "owner-1").Return(form, nil)

		rec := s.do(http.MethodPatch, "/api/v1/forms/6/publish", `{"isPublished":true}`, "owner-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		var body SuccessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Form published successfully", body.Message)
	})

	t.Run("Unpublish", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("SetPublished", mock.Anything, uint(6), false, "owner-1").Return(&models.Form{ID: 6}, nil)

		rec := s.do(http.MethodPatch, "/api/v1/forms/6/publish", `{"isPublished":false}`, "owner-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Form unpublished successfully")
	})

	t.Run("MissingTarget", func(t *testing.T) {
		s := newTestServer()

		rec := s.do(http.MethodPatch, "/api/v1/forms/6/publish", `{}`, "owner-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		s.forms.AssertNotCalled(t, "SetPublished", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyForm", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("SetPublished", mock.Anything, uint(6), true, "owner-1").Return(nil, services.ErrCannotPublishEmptyForm)

		rec := s.do(http.MethodPatch, "/api/v1/forms/6/publish", `{"isPublished":true}`, "owner-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, services.CodeCannotPublishEmptyForm, decodeError(t, rec).Code)
	})
}

func TestFormHandler_Duplicate(t *testing.T) {
	s := newTestServer()
	s.forms.On("Duplicate", mock.Anything, uint(2), "owner-1").Return(&models.Form{ID: 12, Title: "Quiz (Copy)"}, nil)

	rec := s.do(http.MethodPost, "/api/v1/forms/2/duplicate", "", "owner-token")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quiz (Copy)")
}

func TestFormHandler_QuestionEditing(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("AddQuestion", mock.Anything, uint(1), models.QuestionTypeCloze, "owner-1").
			Return(&models.Question{ID: "q_new", Type: models.QuestionTypeCloze}, nil)

		rec := s.do(http.MethodPost, "/api/v1/forms/1/questions", `{"type":"cloze"}`, "owner-token")

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"q_new"`)
	})

	t.Run("AddUnknownType", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("AddQuestion", mock.Anything, uint(1), models.QuestionType("essay"), "owner-1").
			Return(nil, fmt.Errorf("%w: essay", models.ErrUnknownQuestionType))

		rec := s.do(http.MethodPost, "/api/v1/forms/1/questions", `{"type":"essay"}`, "owner-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, services.CodeUnknownQuestionType, decodeError(t, rec).Code)
	})

	t.Run("Duplicate", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("DuplicateQuestion", mock.Anything, uint(1), "q1", "owner-1").
			Return(&models.Question{ID: "q_copy"}, nil)

		rec := s.do(http.MethodPost, "/api/v1/forms/1/questions/q1/duplicate", "", "owner-token")

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("ChangeType", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("ChangeQuestionType", mock.Anything, uint(1), "q1", models.QuestionTypeMCA, "owner-1").
			Return(&models.Question{ID: "q1", Type: models.QuestionTypeMCA}, nil)

		rec := s.do(http.MethodPatch, "/api/v1/forms/1/questions/q1", `{"type":"mca"}`, "owner-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		s.assertExpectations(t)
	})

	t.Run("EditConfig", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("EditQuestion", mock.Anything, uint(1), "q1", mock.MatchedBy(func(req *services.QuestionEditRequest) bool {
			return req.Action == services.EditUpdateOption && req.TargetID == "b" &&
				req.IsCorrect != nil && *req.IsCorrect && req.Text == nil
		}), "owner-1").Return(&models.Question{ID: "q1", Type: models.QuestionTypeMCQ}, nil)

		rec := s.do(http.MethodPost, "/api/v1/forms/1/questions/q1/edits",
			`{"action":"update_option","targetId":"b","isCorrect":true}`, "owner-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		s.assertExpectations(t)
	})

	t.Run("EditConfigWrongType", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("EditQuestion", mock.Anything, uint(1), "q1", mock.Anything, "owner-1").
			Return(nil, builder.ErrWrongQuestionType)

		rec := s.do(http.MethodPost, "/api/v1/forms/1/questions/q1/edits", `{"action":"add_category"}`, "owner-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, services.CodeInvalidBuilderOperation, decodeError(t, rec).Code)
	})

	t.Run("EditConfigRequiresToken", func(t *testing.T) {
		s := newTestServer()

		rec := s.do(http.MethodPost, "/api/v1/forms/1/questions/q1/edits", `{"action":"add_option"}`, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		s.forms.AssertNotCalled(t, "EditQuestion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RemoveMissing", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("RemoveQuestion", mock.Anything, uint(1), "nope", "owner-1").Return(services.ErrQuestionNotFound)

		rec := s.do(http.MethodDelete, "/api/v1/forms/1/questions/nope", "", "owner-token")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, services.CodeQuestionNotFound, decodeError(t, rec).Code)
	})

	t.Run("Reorder", func(t *testing.T) {
		s := newTestServer()
		s.forms.On("ReorderQuestions", mock.Anything, uint(1), []string{"q2", "q1"}, "owner-1").
			Return(&models.Form{ID: 1}, nil)

		rec := s.do(http.MethodPut, "/api/v1/forms/1/questions/order", `{"questionIds":["q2","q1"]}`, "owner-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		s.assertExpectations(t)
	})
}
