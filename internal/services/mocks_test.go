package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockFormRepository is a mock implementation of FormRepository
type MockFormRepository struct {
	mock.Mock
}

func (m *MockFormRepository) Create(ctx context.Context, tx *gorm.DB, form *models.Form) error {
	args := m.Called(ctx, tx, form)
	return args.Error(0)
}

func (m *MockFormRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error) {
	args := m.Called(ctx, tx, id)
	form, _ := args.Get(0).(*models.Form)
	return form, args.Error(1)
}

func (m *MockFormRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error) {
	args := m.Called(ctx, tx, id)
	form, _ := args.Get(0).(*models.Form)
	return form, args.Error(1)
}

func (m *MockFormRepository) Update(ctx context.Context, tx *gorm.DB, form *models.Form) error {
	args := m.Called(ctx, tx, form)
	return args.Error(0)
}

func (m *MockFormRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockFormRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	args := m.Called(ctx, tx, filters)
	forms, _ := args.Get(0).([]*models.Form)
	return forms, args.Get(1).(int64), args.Error(2)
}

func (m *MockFormRepository) IncrementViews(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockFormRepository) UpdateAnalytics(ctx context.Context, tx *gorm.DB, id uint, analytics models.FormAnalytics) error {
	args := m.Called(ctx, tx, id, analytics)
	return args.Error(0)
}

// MockResponseRepository is a mock implementation of ResponseRepository
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Create(ctx context.Context, tx *gorm.DB, response *models.Response) error {
	args := m.Called(ctx, tx, response)
	return args.Error(0)
}

func (m *MockResponseRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Response, error) {
	args := m.Called(ctx, tx, id)
	response, _ := args.Get(0).(*models.Response)
	return response, args.Error(1)
}

func (m *MockResponseRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockResponseRepository) DeleteByForm(ctx context.Context, tx *gorm.DB, formID uint) error {
	args := m.Called(ctx, tx, formID)
	return args.Error(0)
}

func (m *MockResponseRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ResponseFilters) ([]*models.Response, int64, error) {
	args := m.Called(ctx, tx, filters)
	responses, _ := args.Get(0).([]*models.Response)
	return responses, args.Get(1).(int64), args.Error(2)
}

func (m *MockResponseRepository) ListAll(ctx context.Context, tx *gorm.DB, formID uint) ([]*models.Response, error) {
	args := m.Called(ctx, tx, formID)
	responses, _ := args.Get(0).([]*models.Response)
	return responses, args.Error(1)
}

func (m *MockResponseRepository) Summary(ctx context.Context, tx *gorm.DB, formID uint) (*repositories.ResponseSummary, error) {
	args := m.Called(ctx, tx, formID)
	summary, _ := args.Get(0).(*repositories.ResponseSummary)
	return summary, args.Error(1)
}

func (m *MockResponseRepository) CountByForm(ctx context.Context, tx *gorm.DB, formID uint) (int64, error) {
	args := m.Called(ctx, tx, formID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResponseRepository) CountByForms(ctx context.Context, tx *gorm.DB, formIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, tx, formIDs)
	counts, _ := args.Get(0).(map[uint]int64)
	return counts, args.Error(1)
}

func (m *MockResponseRepository) ExistsForRespondent(ctx context.Context, tx *gorm.DB, formID uint, respondentID string) (bool, error) {
	args := m.Called(ctx, tx, formID, respondentID)
	return args.Bool(0), args.Error(1)
}

// MockTransactionManager runs the callback without a real transaction
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
