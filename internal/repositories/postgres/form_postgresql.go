package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FormPostgreSQL struct {
	db *gorm.DB
}

func NewFormPostgreSQL(db *gorm.DB) repositories.FormRepository {
	return &FormPostgreSQL{db: db}
}

// Create inserts a new form document
func (f *FormPostgreSQL) Create(ctx context.Context, tx *gorm.DB, form *models.Form) error {
	if err := getDB(f.db, tx).WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	return nil
}

// GetByID retrieves a form by ID
func (f *FormPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error) {
	var form models.Form
	if err := getDB(f.db, tx).WithContext(ctx).First(&form, id).Error; err != nil {
		return nil, notFound(err, "form", id)
	}
	return &form, nil
}

// GetByIDForUpdate reads a form and holds a row lock until tx ends.
// Submissions to one form serialise on it.
func (f *FormPostgreSQL) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error) {
	var form models.Form
	if err := getDB(f.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&form, id).Error; err != nil {
		return nil, notFound(err, "form", id)
	}
	return &form, nil
}

// Update saves the whole document, questions included
func (f *FormPostgreSQL) Update(ctx context.Context, tx *gorm.DB, form *models.Form) error {
	if err := getDB(f.db, tx).WithContext(ctx).Save(form).Error; err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}
	return nil
}

// Delete soft deletes a form
func (f *FormPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := getDB(f.db, tx).WithContext(ctx).Delete(&models.Form{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete form: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("form %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// List retrieves forms with filters and pagination, most recently updated first
func (f *FormPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	query := getDB(f.db, tx).WithContext(ctx).Model(&models.Form{})
	query = f.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count forms: %w", err)
	}

	var forms []*models.Form
	if err := paginate(query, filters.Pagination).
		Order("updated_at DESC").
		Find(&forms).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list forms: %w", err)
	}

	return forms, total, nil
}

// IncrementViews bumps the view counter without touching updated_at
func (f *FormPostgreSQL) IncrementViews(ctx context.Context, tx *gorm.DB, id uint) error {
	return getDB(f.db, tx).WithContext(ctx).
		Model(&models.Form{}).
		Where("id = ?", id).
		UpdateColumn("analytics_total_views", gorm.Expr("analytics_total_views + ?", 1)).Error
}

// UpdateAnalytics stores submission counters computed by the caller
func (f *FormPostgreSQL) UpdateAnalytics(ctx context.Context, tx *gorm.DB, id uint, analytics models.FormAnalytics) error {
	return getDB(f.db, tx).WithContext(ctx).
		Model(&models.Form{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"analytics_total_submissions":       analytics.TotalSubmissions,
			"analytics_average_completion_time": analytics.AverageCompletionTime,
		}).Error
}

// Helper methods

func (f *FormPostgreSQL) applyFilters(query *gorm.DB, filters repositories.FormFilters) *gorm.DB {
	if filters.OwnerID != "" {
		query = query.Where("owner_id = ?", filters.OwnerID)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filters.Status != nil {
		query = query.Where("settings_is_published = ?", *filters.Status == models.FormStatusPublished)
	}
	return query
}
