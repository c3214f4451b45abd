package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/repositories"
	"gorm.io/gorm"
)

// TransactionManager wraps gorm transactions for the service layer
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) repositories.TransactionManager {
	return &TransactionManager{db: db}
}

func (m *TransactionManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// getDB prefers the caller's transaction over the repository connection
func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, repositories.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func paginate(query *gorm.DB, p repositories.Pagination) *gorm.DB {
	p = p.Normalize()
	return query.Limit(p.Limit).Offset(p.Offset())
}

// likePattern escapes LIKE metacharacters so user input matches literally
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}
