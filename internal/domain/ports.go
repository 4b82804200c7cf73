package domain

import (
	"context"
	"time"
)

// PaymentService описывает двухэтапную платёжную capability:
// резолв opaque-токена в ссылку на платёжный метод и capture по этой ссылке.
// Оба вызова — внешний I/O; state machine оркестрирует их под одним таймаутом.
type PaymentService interface {
	// ResolveToken обменивает shared payment token на идентификатор платёжного метода.
	ResolveToken(ctx context.Context, token string) (string, error)
	// Capture списывает amountMinor по платёжному методу и возвращает
	// идентификатор платёжного интента провайдера.
	Capture(ctx context.Context, paymentMethod string, amountMinor int64, currency string) (string, error)
}

// ProductCatalog описывает доступ к read-only каталогу товаров.
type ProductCatalog interface {
	// Lookup возвращает запись каталога по идентификатору товара.
	Lookup(id string) (Product, bool)
	// Products возвращает все товары в фиксированном порядке.
	Products() []Product
}

// FulfillmentCatalog перечисляет доступные способы доставки.
type FulfillmentCatalog interface {
	// Options возвращает фиксированный упорядоченный список способов доставки.
	Options() []FulfillmentOption
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte, httpStatus int) error
	MarkFailed(key string, responseBody []byte, httpStatus int) error
	DeleteExpired(before time.Time, limit int) (int, error)
}

// OutboxMessage хранит данные для публикуемого события.
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
