package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Checkout события
	EventTypeCheckoutCreated  EventType = "checkout.created"
	EventTypeCheckoutUpdated  EventType = "checkout.updated"
	EventTypeCheckoutReady    EventType = "checkout.ready_for_payment"
	EventTypeCheckoutComplete EventType = "checkout.completed"
	EventTypeCheckoutCanceled EventType = "checkout.canceled"

	// Payment события
	EventTypePaymentCaptured EventType = "payment.captured"
	EventTypePaymentFailed   EventType = "payment.failed"
)

// Topics для Kafka
const (
	TopicCheckoutEvents  = "acs.checkout.events"
	TopicPaymentEvents   = "acs.payment.events"
	TopicDeadLetterQueue = "acs.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// CheckoutEvent представляет событие жизненного цикла checkout-сессии.
type CheckoutEvent struct {
	EventType         EventType              `json:"event_type"`
	CheckoutSessionID string                 `json:"checkout_session_id"`
	Status            string                 `json:"status"`
	TotalMinor        int64                  `json:"total_minor"`
	Currency          string                 `json:"currency"`
	Timestamp         time.Time              `json:"timestamp"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// PaymentEvent представляет событие платёжной стадии.
type PaymentEvent struct {
	EventType         EventType `json:"event_type"`
	CheckoutSessionID string    `json:"checkout_session_id"`
	AmountMinor       int64     `json:"amount_minor"`
	Currency          string    `json:"currency"`
	Reason            string    `json:"reason,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// NewCheckoutEvent создает новое событие checkout-сессии.
func NewCheckoutEvent(eventType EventType, sessionID, status string, totalMinor int64, currency string) *CheckoutEvent {
	return &CheckoutEvent{
		EventType:         eventType,
		CheckoutSessionID: sessionID,
		Status:            status,
		TotalMinor:        totalMinor,
		Currency:          currency,
		Timestamp:         time.Now().UTC(),
	}
}

// NewPaymentEvent создает новое событие платежа.
func NewPaymentEvent(eventType EventType, sessionID string, amountMinor int64, currency, reason string) *PaymentEvent {
	return &PaymentEvent{
		EventType:         eventType,
		CheckoutSessionID: sessionID,
		AmountMinor:       amountMinor,
		Currency:          currency,
		Reason:            reason,
		Timestamp:         time.Now().UTC(),
	}
}

// TopicFor возвращает topic для типа события.
func TopicFor(eventType EventType) string {
	switch eventType {
	case EventTypePaymentCaptured, EventTypePaymentFailed:
		return TopicPaymentEvents
	default:
		return TopicCheckoutEvents
	}
}
