package domain

import "time"

// OutboxMessage хранит данные публикуемого события жизненного цикла.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository хранит события до момента их публикации.
type OutboxRepository interface {
	// Enqueue сохраняет событие в статусе pending; пустой ID заполняется.
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	// PullPending возвращает до limit pending-событий, старые первыми.
	PullPending(limit int) ([]OutboxMessage, error)
	// Stats возвращает размер и возраст backlog для метрик.
	Stats() (OutboxStats, error)
	// MarkSent помечает событие доставленным.
	MarkSent(id string) error
	// MarkFailed помечает событие недоставленным после исчерпания попыток.
	MarkFailed(id string) error
}
