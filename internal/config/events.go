package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/training-service/internal/events"
)

// EventConfig selects where training events go. Events are published after
// the database commit, so a disabled or failing publisher never blocks a
// submission.
type EventConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Publisher    string `yaml:"publisher"` // kafka or mock
	KafkaBrokers string `yaml:"kafka_brokers"`
	Topic        string `yaml:"topic"`
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CreateEventPublisher falls back to the in-memory publisher unless Kafka is
// enabled and configured.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		if len(c.GetKafkaBrokers()) == 0 {
			return nil, fmt.Errorf("event publisher kafka requires at least one broker")
		}
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.Topic)

		publisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.Topic,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		return publisher, nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
