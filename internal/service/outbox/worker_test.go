package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type stubOutboxRepo struct {
	pending   []domain.OutboxMessage
	sentIDs   []string
	failedIDs []string
}

func (s *stubOutboxRepo) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	return msg, nil
}

func (s *stubOutboxRepo) PullPending(limit int) ([]domain.OutboxMessage, error) {
	if limit <= 0 || limit >= len(s.pending) {
		return append([]domain.OutboxMessage(nil), s.pending...), nil
	}
	return append([]domain.OutboxMessage(nil), s.pending[:limit]...), nil
}

func (s *stubOutboxRepo) Stats() (domain.OutboxStats, error) {
	stats := domain.OutboxStats{PendingCount: len(s.pending)}
	if len(s.pending) > 0 {
		stats.OldestPendingAt = time.Now().UTC().Add(-time.Second)
	}
	return stats, nil
}

func (s *stubOutboxRepo) MarkSent(id string) error {
	s.sentIDs = append(s.sentIDs, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(id string) error {
	s.failedIDs = append(s.failedIDs, id)
	return nil
}

// stubPublisher отдаёт ошибки из sequence, пока они есть, затем err.
type stubPublisher struct {
	mu        sync.Mutex
	err       error
	sequence  []error
	callCount int
}

func (s *stubPublisher) Publish(_ domain.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callCount++
	if len(s.sequence) > 0 {
		err := s.sequence[0]
		s.sequence = s.sequence[1:]
		return err
	}
	return s.err
}

func (s *stubPublisher) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

var (
	_ domain.OutboxRepository = (*stubOutboxRepo)(nil)
	_ domain.OutboxPublisher  = (*stubPublisher)(nil)
)

func pendingMessage(id, aggregate, eventType string) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            id,
		AggregateType: aggregate,
		AggregateID:   aggregate + "-1",
		EventType:     eventType,
		Payload:       []byte(`{}`),
	}
}

func TestProcessOnceMarksSent(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{
		pendingMessage("msg-1", "order", "order.placed"),
	}}
	publisher := &stubPublisher{}

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(0), WithMaxAttempts(3))
	worker.ProcessOnce(context.Background())

	assert.Equal(t, 1, publisher.calls())
	assert.Equal(t, []string{"msg-1"}, repo.sentIDs)
	assert.Empty(t, repo.failedIDs)
}

func TestProcessOnceMarksFailedAfterRetries(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{
		pendingMessage("msg-2", "invoice", "invoice.issued"),
	}}
	publisher := &stubPublisher{err: errors.New("broker down")}

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(0), WithMaxAttempts(3))
	worker.ProcessOnce(context.Background())

	assert.Equal(t, 3, publisher.calls())
	assert.Empty(t, repo.sentIDs)
	assert.Equal(t, []string{"msg-2"}, repo.failedIDs)
}

func TestProcessOnceSucceedsAfterRetry(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{
		pendingMessage("msg-3", "order", "order.accepted"),
	}}
	publisher := &stubPublisher{sequence: []error{
		errors.New("attempt 1"),
		errors.New("attempt 2"),
		nil,
	}}

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(0), WithMaxAttempts(3))
	worker.ProcessOnce(context.Background())

	assert.Equal(t, 3, publisher.calls())
	assert.Equal(t, []string{"msg-3"}, repo.sentIDs)
	assert.Empty(t, repo.failedIDs)
}

func TestNewWorkerClampsInvalidOptions(t *testing.T) {
	t.Parallel()

	worker := NewWorker(&stubOutboxRepo{}, &stubPublisher{},
		WithPollInterval(-time.Second),
		WithBatchSize(-5),
		WithMaxAttempts(0),
		WithRetryBaseDelay(-time.Minute),
	)

	assert.Equal(t, defaultPollInterval, worker.pollInterval)
	assert.Equal(t, defaultBatchSize, worker.batchSize)
	assert.Equal(t, defaultMaxAttempts, worker.maxAttempts)
	assert.Equal(t, time.Duration(0), worker.retryBaseDelay)
}

func TestRetryBackoffDoubles(t *testing.T) {
	t.Parallel()

	worker := NewWorker(&stubOutboxRepo{}, &stubPublisher{},
		WithRetryBaseDelay(10*time.Millisecond))

	assert.Equal(t, 10*time.Millisecond, worker.retryBackoff(1))
	assert.Equal(t, 20*time.Millisecond, worker.retryBackoff(2))
	assert.Equal(t, 40*time.Millisecond, worker.retryBackoff(3))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	worker := NewWorker(&stubOutboxRepo{}, &stubPublisher{},
		WithPollInterval(5*time.Millisecond),
		WithRetryBaseDelay(0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "worker did not stop on context cancel")
	}
}
