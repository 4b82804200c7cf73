package memory_test

import (
	"testing"

	"github.com/vladislavdragonenkov/acs/internal/domain"
	"github.com/vladislavdragonenkov/acs/internal/storage/memory"
)

func newOutboxMessage(id string) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            id,
		AggregateType: "checkout_session",
		AggregateID:   "checkout_1",
		EventType:     "acs.checkout.created",
		Payload:       []byte(`{"checkout_session_id":"checkout_1"}`),
	}
}

func TestOutboxRepository_EnqueuePull(t *testing.T) {
	repo := memory.NewOutboxRepository()

	msg, err := repo.Enqueue(newOutboxMessage(""))
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("expected generated message id")
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending message, got %d", len(pending))
	}
	if pending[0].ID != msg.ID {
		t.Fatalf("expected message %s, got %s", msg.ID, pending[0].ID)
	}
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	repo := memory.NewOutboxRepository()

	msg, err := repo.Enqueue(newOutboxMessage("outbox_1"))
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := repo.MarkSent(msg.ID); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty backlog, got %d", len(pending))
	}
}

func TestOutboxRepository_MarkFailedUnknownID(t *testing.T) {
	repo := memory.NewOutboxRepository()

	if err := repo.MarkFailed("outbox_missing"); err == nil {
		t.Fatal("expected error for unknown message id")
	}
}

func TestOutboxRepository_Stats(t *testing.T) {
	repo := memory.NewOutboxRepository()

	for _, id := range []string{"outbox_1", "outbox_2"} {
		if _, err := repo.Enqueue(newOutboxMessage(id)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}
	if err := repo.MarkSent("outbox_1"); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 1 {
		t.Fatalf("expected 1 pending, got %d", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() {
		t.Fatal("expected oldest pending timestamp")
	}
}
