package kafka

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(value, &envelope); err != nil {
			return err
		}
		for _, field := range []string{"id", "aggregate_type", "aggregate_id", "event_type", "payload", "published_at"} {
			if _, ok := envelope[field]; !ok {
				return errors.New("missing envelope field " + field)
			}
		}
		return nil
	})

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: "checkout_session",
		AggregateID:   "sess_123",
		EventType:     string(EventTypeCheckoutReady),
		Payload:       []byte(`{"status":"ready_for_payment"}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: "checkout_session",
		AggregateID:   "sess_234",
		EventType:     string(EventTypeCheckoutComplete),
		Payload:       []byte(`{"status":"completed"}`),
	})
	if err == nil {
		t.Fatal("expected publish error, got nil")
	}
	if !errors.Is(err, domain.ErrOutboxPublish) {
		t.Fatalf("expected ErrOutboxPublish, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishNilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil)
	if err := publisher.Publish(domain.OutboxMessage{ID: "outbox-3"}); err == nil {
		t.Fatal("expected error for nil producer")
	}
}

func TestNewDLQPublisher(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndSucceed()

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-dlq-publisher-test"),
	}
	publisher := NewDLQPublisher(producer)
	if publisher.topic != TopicDeadLetterQueue {
		t.Fatalf("unexpected dlq topic: %q", publisher.topic)
	}

	err := publisher.Publish(domain.OutboxMessage{
		ID:          "outbox-4",
		AggregateID: "sess_345",
		EventType:   string(EventTypeCheckoutCanceled),
		Payload:     []byte("{}"),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
