package events

import (
	"time"

	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

// Sink receives engine lifecycle events. Delivery is fire-and-forget: the
// engine never waits for acknowledgement and a failing sink must not surface
// errors into the scheduling loop.
type Sink interface {
	Emit(event string, payload any)
}

// LogSink writes events to the structured log. It is the default sink.
type LogSink struct {
	logger *logging.Logger
}

// NewLogSink creates a log-backed sink.
func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(event string, payload any) {
	s.logger.Info("event emitted", "event", event, "payload", payload)
}

// MultiSink fans an event out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Emit(event string, payload any) {
	for _, sink := range m {
		sink.Emit(event, payload)
	}
}

func envelope(event string, payload any) Envelope {
	return Envelope{Event: event, EmittedAt: time.Now().UTC(), Payload: payload}
}
