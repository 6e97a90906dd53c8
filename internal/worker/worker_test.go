package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"todo-web/internal/models"
	"todo-web/internal/queue"
)

// fakeReader serves queued messages, then blocks until ctx is done.
type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	fetchErrs []error
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.msgs) > 0 {
		msg := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func encoded(t *testing.T, action, text string) kafka.Message {
	t.Helper()
	msg, err := queue.EncodeEvent(&models.TodoEvent{
		Action:     action,
		Todo:       models.Todo{ID: text + "-id", Text: models.StringText(text)},
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return msg
}

func runUntilCommitted(t *testing.T, w *Worker, r *fakeReader, want int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return r.committedCount() == want }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestRunDispatchesAndCommits(t *testing.T) {
	r := &fakeReader{msgs: []kafka.Message{
		encoded(t, models.ActionCreated, "a"),
		encoded(t, models.ActionDeleted, "a"),
	}}
	var mu sync.Mutex
	var seen []string
	w := New(r, func(_ context.Context, e *models.TodoEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.Action+":"+e.Todo.Text.String())
		return nil
	})

	runUntilCommitted(t, w, r, 2)

	assert.Equal(t, []string{"created:a", "deleted:a"}, seen)
	assert.Equal(t, int64(2), w.Processed())
	assert.Zero(t, w.Failed())
	assert.True(t, r.closed)
}

func TestRunCommitsPoisonPills(t *testing.T) {
	r := &fakeReader{msgs: []kafka.Message{
		{Value: []byte("garbage")},
		encoded(t, models.ActionCreated, "b"),
	}}
	w := New(r, func(_ context.Context, e *models.TodoEvent) error {
		if e.Todo.Text.String() == "b" {
			return errors.New("handler failed")
		}
		return nil
	})

	runUntilCommitted(t, w, r, 2)

	assert.Zero(t, w.Processed())
	assert.Equal(t, int64(2), w.Failed())
}

func TestRunSurvivesFetchErrors(t *testing.T) {
	r := &fakeReader{
		fetchErrs: []error{errors.New("transient")},
		msgs:      []kafka.Message{encoded(t, models.ActionCreated, "c")},
	}
	w := New(r, LogActivity)

	runUntilCommitted(t, w, r, 1)

	assert.Equal(t, int64(1), w.Processed())
}

func TestLogActivityIgnoresUnknownActions(t *testing.T) {
	assert.NoError(t, LogActivity(context.Background(), &models.TodoEvent{Action: "renamed"}))
}
