package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKafkaWriter struct {
	messages []kafka.Message
	err      error
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func TestKafkaSinkWritesKeyedEnvelope(t *testing.T) {
	writer := &fakeKafkaWriter{}
	sink := newKafkaSink(writer, nil)

	sink.Emit(ContactInitiated, ContactInitiatedV1{EventID: "ev-1", CustomerID: "cust-1"})

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, ContactInitiated, string(msg.Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, ContactInitiated, env.Event)
}

func TestKafkaSinkWriteFailureDoesNotPanic(t *testing.T) {
	writer := &fakeKafkaWriter{err: errors.New("broker unreachable")}
	sink := newKafkaSink(writer, nil)

	assert.NotPanics(t, func() {
		sink.Emit(ConfigUpdated, ConfigUpdatedV1{EventID: "ev-2"})
	})
	assert.Empty(t, writer.messages)
}
