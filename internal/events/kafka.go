package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

// kafkaWriter abstracts kafka.Writer for testing.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publishes events to a Kafka topic for downstream analytics.
type KafkaSink struct {
	writer kafkaWriter
	logger *logging.Logger
}

// NewKafkaSink creates a Kafka-backed sink writing to the given brokers/topic.
func NewKafkaSink(brokers []string, topic string, logger *logging.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 5 * time.Second,
	}
	return newKafkaSink(writer, logger)
}

func newKafkaSink(writer kafkaWriter, logger *logging.Logger) *KafkaSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &KafkaSink{writer: writer, logger: logger}
}

func (s *KafkaSink) Emit(event string, payload any) {
	body, err := json.Marshal(envelope(event, payload))
	if err != nil {
		s.logger.Error("events: marshal failed", "event", event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	msg := kafka.Message{Key: []byte(event), Value: body}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Warn("events: kafka write failed", "event", event, "error", err)
	}
}
