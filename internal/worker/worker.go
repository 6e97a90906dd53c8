package worker

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
	"todo-web/internal/models"
	"todo-web/internal/queue"
	"todo-web/pkg/logger"
)

// MessageReader is the subset of *kafka.Reader the worker needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded todo event.
type Handler func(ctx context.Context, event *models.TodoEvent) error

// NewReader returns a consumer-group reader for the todo event topic.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Worker consumes todo events and hands them to a Handler.
type Worker struct {
	reader    MessageReader
	handle    Handler
	processed atomic.Int64
	failed    atomic.Int64
}

// New returns a worker reading from r.
func New(r MessageReader, h Handler) *Worker {
	return &Worker{reader: r, handle: h}
}

// Processed is the number of events handled successfully.
func (w *Worker) Processed() int64 { return w.processed.Load() }

// Failed is the number of events that could not be decoded or handled.
func (w *Worker) Failed() int64 { return w.failed.Load() }

// Run consumes until ctx is cancelled. Undecodable or failing messages are
// committed anyway so a poison pill cannot block the partition.
func (w *Worker) Run(ctx context.Context) error {
	defer w.reader.Close()
	logger.Info(ctx, "Kafka consumer started")
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := w.handleMessage(ctx, msg.Value); err != nil {
			w.failed.Add(1)
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
		} else {
			w.processed.Add(1)
		}
		if err := w.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, payload []byte) error {
	event, err := queue.DecodeEvent(payload)
	if err != nil {
		return err
	}
	return w.handle(ctx, event)
}

// LogActivity is a Handler that writes each event to the structured log.
func LogActivity(ctx context.Context, event *models.TodoEvent) error {
	switch event.Action {
	case models.ActionCreated, models.ActionDeleted:
		logger.Info(ctx, "Todo "+event.Action,
			"id", event.Todo.ID,
			"text", event.Todo.Text.String(),
			"date", event.Todo.Date,
			"index", event.Index,
			"instance", event.Instance,
			"occurred_at", event.OccurredAt,
		)
	default:
		logger.Debug(ctx, "Ignoring todo event", "action", event.Action)
	}
	return nil
}
