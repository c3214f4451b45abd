package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

func (r *ResponsePostgreSQL) Create(ctx context.Context, tx *gorm.DB, response *models.Response) error {
	if err := getDB(r.db, tx).WithContext(ctx).Create(response).Error; err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	return nil
}

func (r *ResponsePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Response, error) {
	var response models.Response
	if err := getDB(r.db, tx).WithContext(ctx).First(&response, id).Error; err != nil {
		return nil, notFound(err, "response", id)
	}
	return &response, nil
}

func (r *ResponsePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := getDB(r.db, tx).WithContext(ctx).Delete(&models.Response{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete response: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("response %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// DeleteByForm removes every response of a form
func (r *ResponsePostgreSQL) DeleteByForm(ctx context.Context, tx *gorm.DB, formID uint) error {
	if err := getDB(r.db, tx).WithContext(ctx).
		Where("form_id = ?", formID).
		Delete(&models.Response{}).Error; err != nil {
		return fmt.Errorf("failed to delete responses of form %d: %w", formID, err)
	}
	return nil
}

// List returns one page of a form's responses, newest submission first.
// Answers are left out of the listing.
func (r *ResponsePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ResponseFilters) ([]*models.Response, int64, error) {
	query := getDB(r.db, tx).WithContext(ctx).Model(&models.Response{})
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count responses: %w", err)
	}

	var responses []*models.Response
	if err := paginate(query, filters.Pagination).
		Omit("answers").
		Order("submitted_at DESC").
		Find(&responses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list responses: %w", err)
	}

	return responses, total, nil
}

// ListAll returns every response of a form in submission order
func (r *ResponsePostgreSQL) ListAll(ctx context.Context, tx *gorm.DB, formID uint) ([]*models.Response, error) {
	var responses []*models.Response
	if err := getDB(r.db, tx).WithContext(ctx).
		Where("form_id = ?", formID).
		Order("submitted_at ASC").
		Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses of form %d: %w", formID, err)
	}
	return responses, nil
}

type summaryRow struct {
	TotalResponses        int64
	AverageCompletionTime *float64
	AverageScore          *float64
	CompletionRate        *float64
}

// Summary aggregates all responses of the form regardless of any list filter
func (r *ResponsePostgreSQL) Summary(ctx context.Context, tx *gorm.DB, formID uint) (*repositories.ResponseSummary, error) {
	var row summaryRow
	if err := getDB(r.db, tx).WithContext(ctx).
		Model(&models.Response{}).
		Select(`COUNT(*) AS total_responses,
			AVG(total_time_spent) AS average_completion_time,
			AVG(total_score) AS average_score,
			AVG(CASE WHEN is_complete THEN 1.0 ELSE 0.0 END) AS completion_rate`).
		Where("form_id = ?", formID).
		Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to summarise responses of form %d: %w", formID, err)
	}

	summary := &repositories.ResponseSummary{
		TotalResponses: row.TotalResponses,
		AverageScore:   row.AverageScore,
	}
	if row.AverageCompletionTime != nil {
		summary.AverageCompletionTime = int64(math.Round(*row.AverageCompletionTime))
	}
	if row.CompletionRate != nil {
		summary.CompletionRate = int(math.Round(*row.CompletionRate * 100))
	}
	return summary, nil
}

func (r *ResponsePostgreSQL) CountByForm(ctx context.Context, tx *gorm.DB, formID uint) (int64, error) {
	var count int64
	if err := getDB(r.db, tx).WithContext(ctx).
		Model(&models.Response{}).
		Where("form_id = ?", formID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count responses of form %d: %w", formID, err)
	}
	return count, nil
}

// CountByForms counts responses for many forms in one query. Forms without
// responses are absent from the map.
func (r *ResponsePostgreSQL) CountByForms(ctx context.Context, tx *gorm.DB, formIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(formIDs))
	if len(formIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		FormID uint
		Count  int64
	}
	if err := getDB(r.db, tx).WithContext(ctx).
		Model(&models.Response{}).
		Select("form_id, COUNT(*) AS count").
		Where("form_id IN ?", formIDs).
		Group("form_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	for _, row := range rows {
		counts[row.FormID] = row.Count
	}
	return counts, nil
}

func (r *ResponsePostgreSQL) ExistsForRespondent(ctx context.Context, tx *gorm.DB, formID uint, respondentID string) (bool, error) {
	var count int64
	if err := getDB(r.db, tx).WithContext(ctx).
		Model(&models.Response{}).
		Where("form_id = ? AND respondent_id = ?", formID, respondentID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existing response: %w", err)
	}
	return count > 0, nil
}

func (r *ResponsePostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResponseFilters) *gorm.DB {
	query = query.Where("form_id = ?", filters.FormID)
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	if filters.Email != "" {
		query = query.Where("respondent_email ILIKE ?", likePattern(filters.Email))
	}
	return query
}
