package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", service),
	}
}

// ===== OPERATION LOGGING =====

// LogOperation writes one record per finished operation. Client mistakes
// are logged at warn level, missing resources at info and everything else
// at error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID string, resourceID uint, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()), slog.String("code", ErrorCode(err)))

		var ce apperrors.ConfigErrors
		var se *apperrors.SubmissionError
		switch {
		case errors.As(err, &ce):
			attrs = append(attrs, slog.Int("invalid_questions", len(ce)))
		case errors.As(err, &se):
			attrs = append(attrs, slog.Int("submission_issues", len(se.Issues)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// ContextualLogger times one operation
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	userID    string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, userID string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		userID:    userID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceID uint, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.userID, resourceID, time.Since(cl.startTime), err)
}
