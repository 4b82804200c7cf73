package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

// OutboxPublisher адаптирует Producer под доменный порт domain.OutboxPublisher.
// Сообщения outbox публикуются в topic, выбираемый по типу события.
type OutboxPublisher struct {
	producer *Producer
	topic    string // если пуст, topic выбирается по типу события
}

// NewOutboxPublisher создаёт publisher поверх Kafka producer.
func NewOutboxPublisher(producer *Producer) *OutboxPublisher {
	return &OutboxPublisher{producer: producer}
}

// NewDLQPublisher создаёт publisher, направляющий все сообщения в DLQ topic.
func NewDLQPublisher(producer *Producer) *OutboxPublisher {
	return &OutboxPublisher{producer: producer, topic: TopicDeadLetterQueue}
}

// Publish отправляет сообщение outbox в Kafka.
func (p *OutboxPublisher) Publish(event domain.OutboxMessage) error {
	if p.producer == nil {
		return fmt.Errorf("kafka producer is not configured")
	}

	topic := p.topic
	if topic == "" {
		topic = TopicFor(EventType(event.EventType))
	}

	envelope := map[string]any{
		"id":             event.ID,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID,
		"event_type":     event.EventType,
		"payload":        json.RawMessage(event.Payload),
		"published_at":   time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := p.producer.PublishEvent(topic, event.AggregateID, envelope); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrOutboxPublish, err)
	}
	return nil
}

var _ domain.OutboxPublisher = (*OutboxPublisher)(nil)
