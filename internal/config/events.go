package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/events"
)

type EventConfig struct {
	Enabled      bool
	Publisher    string // kafka, rabbitmq or mock
	KafkaBrokers string
	RabbitMQURL  string
	FormTopic    string
}

func (c *EventConfig) GetKafkaBrokers() []string {
	brokers := strings.Split(c.KafkaBrokers, ",")
	out := brokers[:0]
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// CreateEventPublisher builds the publisher selected by the configuration.
// Disabled or unknown publishers fall back to the in-memory mock.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.FormTopic)
		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.FormTopic,
			Logger:       logger,
		})
	case "rabbitmq":
		logger.Info("Creating RabbitMQ event publisher", "queue", c.FormTopic)
		return events.NewRabbitMQEventPublisher(c.RabbitMQURL, c.FormTopic, logger)
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
