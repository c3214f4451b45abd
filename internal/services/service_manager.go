package services

import (
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/metrics"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/submission"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

// ServiceManager hands the handlers their services
type ServiceManager interface {
	Form() FormService
	Response() ResponseService
	Export() ExportService
}

// Dependencies collects what the services are built from. Cache, Publisher
// and Metrics may be nil.
type Dependencies struct {
	Forms     repositories.FormRepository
	Responses repositories.ResponseRepository
	Tx        repositories.TransactionManager
	Cache     *cache.FormCache
	Publisher events.EventPublisher
	Metrics   *metrics.Metrics
	Evaluator *submission.Evaluator
	Validator *validator.Validator
	Logger    *slog.Logger
}

type serviceManager struct {
	form     FormService
	response ResponseService
	export   ExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	notifier := NewNotificationEventService(deps.Publisher, deps.Logger)

	return &serviceManager{
		form: NewFormService(deps.Forms, deps.Responses, deps.Tx, deps.Cache,
			notifier, deps.Metrics, deps.Validator, deps.Logger),
		response: NewResponseService(deps.Forms, deps.Responses, deps.Tx, deps.Evaluator,
			notifier, deps.Metrics, deps.Validator, deps.Logger),
		export: NewExportService(deps.Forms, deps.Responses, deps.Logger),
	}
}

func (m *serviceManager) Form() FormService {
	return m.form
}

func (m *serviceManager) Response() ResponseService {
	return m.response
}

func (m *serviceManager) Export() ExportService {
	return m.export
}
