package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
)

// NotificationEventService announces form lifecycle changes and new
// responses on the event bus. Notifications are sent after the change is
// committed; a failed publish is logged and never undoes the change.
type NotificationEventService interface {
	NotifyFormPublished(ctx context.Context, form *models.Form)
	NotifyFormUnpublished(ctx context.Context, form *models.Form)
	NotifyResponseSubmitted(ctx context.Context, form *models.Form, response *models.Response)
}

type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationEventService(eventPublisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===== FORM NOTIFICATIONS =====

func (s *notificationEventService) NotifyFormPublished(ctx context.Context, form *models.Form) {
	publishedAt := time.Now()
	if form.PublishedAt != nil {
		publishedAt = *form.PublishedAt
	}

	s.publish(ctx, events.NewFormPublishedEvent(
		form.ID,
		form.Title,
		form.OwnerID,
		len(form.Questions),
		publishedAt,
	), "form_id", form.ID)
}

func (s *notificationEventService) NotifyFormUnpublished(ctx context.Context, form *models.Form) {
	s.publish(ctx, events.NewFormUnpublishedEvent(form.ID, form.Title, form.OwnerID), "form_id", form.ID)
}

// ===== RESPONSE NOTIFICATIONS =====

func (s *notificationEventService) NotifyResponseSubmitted(ctx context.Context, form *models.Form, response *models.Response) {
	s.publish(ctx, events.NewResponseSubmittedEvent(events.ResponseSubmittedEvent{
		ResponseID:           response.ID,
		FormID:               form.ID,
		FormTitle:            form.Title,
		OwnerID:              form.OwnerID,
		RespondentID:         response.RespondentID,
		RespondentEmail:      response.RespondentEmail,
		CompletionPercentage: response.CompletionPercentage,
		TotalScore:           response.TotalScore,
		MaxTotalScore:        response.MaxTotalScore,
		ScorePercentage:      response.ScorePercentage,
		SubmittedAt:          response.SubmittedAt,
	}), "form_id", form.ID, "response_id", response.ID)
}

func (s *notificationEventService) publish(ctx context.Context, event *events.Event, args ...any) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			append([]any{"event_type", event.Type, "event_id", event.ID, "error", err}, args...)...)
		return
	}
	s.logger.Debug("Event published", append([]any{"event_type", event.Type, "event_id", event.ID}, args...)...)
}
