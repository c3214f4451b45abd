package repositories

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id matches no row
var ErrNotFound = errors.New("record not found")

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ===== SHARED FILTER STRUCTS =====

// Pagination is 1-based. Normalize clamps page to >= 1 and limit to 1..100,
// defaulting to 10.
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

type FormFilters struct {
	OwnerID string             `json:"owner_id"`
	Search  string             `json:"search"`
	Status  *models.FormStatus `json:"status"`
	Pagination
}

type ResponseFilters struct {
	FormID   uint       `json:"form_id"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Email    string     `json:"email"`
	Pagination
}

// ===== SHARED STATISTICS STRUCTS =====

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPageMeta(total int64, p Pagination) PageMeta {
	p = p.Normalize()
	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))
	return PageMeta{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// ResponseSummary aggregates every response of a form. AverageCompletionTime
// is in whole seconds and CompletionRate is the percentage of complete
// responses.
type ResponseSummary struct {
	TotalResponses        int64    `json:"totalResponses"`
	AverageCompletionTime int64    `json:"averageCompletionTime"`
	AverageScore          *float64 `json:"averageScore"`
	CompletionRate        int      `json:"completionRate"`
}

// ===== REPOSITORIES =====

// TransactionManager runs fn inside one database transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// FormRepository persists form documents. A nil tx means the repository's
// own connection.
type FormRepository interface {
	Create(ctx context.Context, tx *gorm.DB, form *models.Form) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Form, error)
	Update(ctx context.Context, tx *gorm.DB, form *models.Form) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, filters FormFilters) ([]*models.Form, int64, error)

	IncrementViews(ctx context.Context, tx *gorm.DB, id uint) error
	UpdateAnalytics(ctx context.Context, tx *gorm.DB, id uint, analytics models.FormAnalytics) error
}

type ResponseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, response *models.Response) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Response, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteByForm(ctx context.Context, tx *gorm.DB, formID uint) error

	List(ctx context.Context, tx *gorm.DB, filters ResponseFilters) ([]*models.Response, int64, error)
	ListAll(ctx context.Context, tx *gorm.DB, formID uint) ([]*models.Response, error)
	Summary(ctx context.Context, tx *gorm.DB, formID uint) (*ResponseSummary, error)

	CountByForm(ctx context.Context, tx *gorm.DB, formID uint) (int64, error)
	CountByForms(ctx context.Context, tx *gorm.DB, formIDs []uint) (map[uint]int64, error)
	ExistsForRespondent(ctx context.Context, tx *gorm.DB, formID uint, respondentID string) (bool, error)
}
