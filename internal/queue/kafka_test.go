package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"todo-web/internal/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleEvent() *models.TodoEvent {
	return &models.TodoEvent{
		Action:     models.ActionCreated,
		Todo:       models.Todo{ID: "todo-1", Text: models.StringText("buy milk"), Date: "2024-01-02 03:04:05"},
		Index:      0,
		Instance:   "inst-1",
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	require.NoError(t, p.PublishTodoEvent(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "todo-1", string(w.msgs[0].Key))

	got, err := DecodeEvent(w.msgs[0].Value)
	require.NoError(t, err)
	assert.Equal(t, sampleEvent(), got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherPropagatesWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisher(w)

	err := p.PublishTodoEvent(context.Background(), sampleEvent())
	assert.EqualError(t, err, "broker down")
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := DecodeEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestNewWriterConfiguration(t *testing.T) {
	w := NewWriter([]string{"k1:9092", "k2:9092"}, "todo-events")
	assert.Equal(t, "todo-events", w.Topic)
	assert.True(t, w.Async)
	assert.Equal(t, "tcp,tcp", w.Addr.Network())
	assert.Equal(t, "k1:9092,k2:9092", w.Addr.String())

	single := NewWriter([]string{"k1:9092"}, "todo-events")
	assert.Equal(t, "tcp", single.Addr.Network())
	assert.Equal(t, "k1:9092", single.Addr.String())
}

func TestEventKeepsNonStringText(t *testing.T) {
	event := sampleEvent()
	event.Todo.Text = models.Text(`{"n":42}`)

	msg, err := EncodeEvent(event)
	require.NoError(t, err)
	assert.Contains(t, string(msg.Value), `"text":{"n":42}`)

	got, err := DecodeEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, `{"n":42}`, string(got.Todo.Text))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishTodoEvent(context.Background(), sampleEvent()))
	assert.NoError(t, p.Close())
}
