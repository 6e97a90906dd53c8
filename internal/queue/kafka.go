package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"todo-web/internal/models"
	"todo-web/pkg/logger"
)

// Publisher emits one event per store mutation.
type Publisher interface {
	PublishTodoEvent(ctx context.Context, event *models.TodoEvent) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes todo events as JSON to a Kafka topic.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewWriter returns an async Kafka writer for topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher wraps w.
func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishTodoEvent publishes the event keyed by todo ID, so all events for
// one todo land on the same partition.
func (p *KafkaPublisher) PublishTodoEvent(ctx context.Context, event *models.TodoEvent) error {
	msg, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// EncodeEvent builds the Kafka message for event.
func EncodeEvent(event *models.TodoEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal todo event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.Todo.ID),
		Value: payload,
		Time:  event.OccurredAt,
	}, nil
}

// DecodeEvent parses a message value produced by EncodeEvent.
func DecodeEvent(value []byte) (*models.TodoEvent, error) {
	var event models.TodoEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return nil, fmt.Errorf("unmarshal todo event: %w", err)
	}
	return &event, nil
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

// PublishTodoEvent discards event.
func (NopPublisher) PublishTodoEvent(context.Context, *models.TodoEvent) error { return nil }

// Close is a no-op.
func (NopPublisher) Close() error { return nil }

// EnsureTopic creates the topic with the given partitions (idempotent).
// Call at startup; if it fails (e.g. no broker or topic exists), app still runs.
func EnsureTopic(ctx context.Context, brokers []string, topic string, partitions int) {
	if len(brokers) == 0 {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", topic, "partitions", partitions)
}
