package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ===== SERVICE MOCKS =====

type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) Create(ctx context.Context, req *services.CreateFormRequest, ownerID string) (*models.Form, error) {
	args := m.Called(ctx, req, ownerID)
	form, _ := args.Get(0).(*models.Form)
	return form, args.Error(1)
}

func (m *MockFormService) Get(ctx context.Context, id uint, viewerID string, preview bool) (*services.FormView, error) {
	args := m.Called(ctx, id, viewerID, preview)
	view, _ := args.Get(0).(*services.FormView)
	return view, args.Error(1)
}

func (m *MockFormService) GetPublic(ctx context.Context, id uint) (*models.PublicForm, error) {
	args := m.Called(ctx, id)
	form, _ := args.Get(0).(*models.PublicForm)
	return form, args.Error(1)
}

func (m *MockFormService) List(ctx context.Context, ownerID string, req *services.ListFormsRequest) (*services.FormListResponse, error) {
	args := m.Called(ctx, ownerID, req)
	result, _ := args.Get(0).(*services.FormListResponse)
	return result, args.Error(1)
}

func (m *MockFormService) Update(ctx context.Context, id uint, req *services.UpdateFormRequest, userID string) (*models.Form, error) {
	args := m.Called(ctx, id, req, userID)
	form, _ := args.Get(0).(*models.Form)
	return form, args.Error(1)
}

func (m *MockFormService) Delete(ctx context.Context, id uint, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockFormService) SetPublished(ctx context.Context, id uint, publish bool, userID string) (*models.Form, error) {
	args := m.Called(ctx, id, publish, userID)
	form, _ := args.Get(0).(*models.Form)
	return form, args.Error(1)
}

func (m *MockFormService) Duplicate(ctx context.Context, id uint, userID string) (*models.Form, error) {
	args := m.Called(ctx, id, userID)
	form, _ := args.Get(0).(*models.Form)
	return form, args.Error(1)
}

func (m *MockFormService) AddQuestion(ctx context.Context, formID uint, questionType models.QuestionType, userID string) (*models.Question, error) {
	args := m.Called(ctx, formID, questionType, userID)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockFormService) DuplicateQuestion(ctx context.Context, formID uint, questionID, userID string) (*models.Question, error) {
	args := m.Called(ctx, formID, questionID, userID)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockFormService) ChangeQuestionType(ctx context.Context, formID uint, questionID string, questionType models.QuestionType, userID string) (*models.Question, error) {
	args := m.Called(ctx, formID, questionID, questionType, userID)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockFormService) EditQuestion(ctx context.Context, formID uint, questionID string, req *services.QuestionEditRequest, userID string) (*models.Question, error) {
	args := m.Called(ctx, formID, questionID, req, userID)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockFormService) RemoveQuestion(ctx context.Context, formID uint, questionID, userID string) error {
	args := m.Called(ctx, formID, questionID, userID)
	return args.Error(0)
}

func (m *MockFormService) ReorderQuestions(ctx context.Context, formID uint, questionIDs []string, userID string) (*models.Form, error) {
	args := m.Called(ctx, formID, questionIDs, userID)
	form, _ := args.Get(0).(*models.Form)
	return form, args.Error(1)
}

type MockResponseService struct {
	mock.Mock
}

func (m *MockResponseService) Submit(ctx context.Context, req *services.SubmitResponseRequest, respondent services.Respondent) (*services.SubmitResponseResult, error) {
	args := m.Called(ctx, req, respondent)
	result, _ := args.Get(0).(*services.SubmitResponseResult)
	return result, args.Error(1)
}

func (m *MockResponseService) List(ctx context.Context, formID uint, req *services.ListResponsesRequest, userID string) (*services.ResponseListResponse, error) {
	args := m.Called(ctx, formID, req, userID)
	result, _ := args.Get(0).(*services.ResponseListResponse)
	return result, args.Error(1)
}

func (m *MockResponseService) Get(ctx context.Context, id uint, userID string) (*models.Response, error) {
	args := m.Called(ctx, id, userID)
	response, _ := args.Get(0).(*models.Response)
	return response, args.Error(1)
}

func (m *MockResponseService) Delete(ctx context.Context, id uint, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportResponses(ctx context.Context, formID uint, userID string) ([]byte, string, error) {
	args := m.Called(ctx, formID, userID)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

type mockServiceManager struct {
	form     *MockFormService
	response *MockResponseService
	export   *MockExportService
}

func (m *mockServiceManager) Form() services.FormService         { return m.form }
func (m *mockServiceManager) Response() services.ResponseService { return m.response }
func (m *mockServiceManager) Export() services.ExportService     { return m.export }

// ===== AUTH FAKE =====

// fakeTokenParser accepts the tokens it knows
type fakeTokenParser struct {
	users map[string]casdoorsdk.User
}

func (p *fakeTokenParser) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	user, ok := p.users[token]
	if !ok {
		return nil, errors.New("token is malformed")
	}
	return &casdoorsdk.Claims{User: user}, nil
}

// ===== TEST SERVER =====

type testServer struct {
	router   *gin.Engine
	forms    *MockFormService
	response *MockResponseService
	export   *MockExportService
}

func newTestServer() *testServer {
	manager := &mockServiceManager{
		form:     new(MockFormService),
		response: new(MockResponseService),
		export:   new(MockExportService),
	}
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	parser := &fakeTokenParser{users: map[string]casdoorsdk.User{
		"owner-token": {Id: "owner-1", Name: "ada", DisplayName: "Ada Lovelace", Email: "ada@example.com"},
	}}

	router := gin.New()
	NewHandlerManager(manager, NewAuthenticator(parser, false, logger), nil, logger).SetupRoutes(router)

	return &testServer{
		router:   router,
		forms:    manager.form,
		response: manager.response,
		export:   manager.export,
	}
}

// do sends a request; an empty token sends it unauthenticated
func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) assertExpectations(t mock.TestingT) {
	s.forms.AssertExpectations(t)
	s.response.AssertExpectations(t)
	s.export.AssertExpectations(t)
}
