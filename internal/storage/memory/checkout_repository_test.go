package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/acs/internal/domain"
	"github.com/vladislavdragonenkov/acs/internal/storage/memory"
)

func newSession(id string, createdAt time.Time) domain.CheckoutSession {
	return domain.CheckoutSession{
		ID:       id,
		Status:   domain.CheckoutStatusNotReadyForPayment,
		Currency: "usd",
		LineItems: []domain.LineItem{
			{
				ID:         "li_1",
				Item:       domain.Item{ID: "item_001", Quantity: 2},
				BaseAmount: 1000,
				Subtotal:   1000,
				Total:      1000,
			},
		},
		Totals: []domain.Total{
			{Type: domain.TotalTypeSubtotal, DisplayText: "Subtotal", Amount: 1000},
			{Type: domain.TotalTypeFulfillment, DisplayText: "Shipping", Amount: 0},
			{Type: domain.TotalTypeTax, DisplayText: "Tax", Amount: 0},
			{Type: domain.TotalTypeTotal, DisplayText: "Total", Amount: 1000},
		},
		Version:   0,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCheckoutRepository_CreateGet(t *testing.T) {
	repo := memory.NewCheckoutRepository()
	session := newSession("checkout_1", time.Now().UTC())

	if err := repo.Create(session); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(session.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != session.ID {
		t.Fatalf("expected id %s, got %s", session.ID, stored.ID)
	}
}

func TestCheckoutRepository_CreateDuplicate(t *testing.T) {
	repo := memory.NewCheckoutRepository()
	session := newSession("checkout_1", time.Now().UTC())

	if err := repo.Create(session); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(session); !errors.Is(err, domain.ErrCheckoutVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestCheckoutRepository_GetNotFound(t *testing.T) {
	repo := memory.NewCheckoutRepository()

	_, err := repo.Get("checkout_missing")
	if !errors.Is(err, domain.ErrCheckoutNotFound) {
		t.Fatalf("expected ErrCheckoutNotFound, got %v", err)
	}
}

func TestCheckoutRepository_GetReturnsCopy(t *testing.T) {
	repo := memory.NewCheckoutRepository()
	session := newSession("checkout_1", time.Now().UTC())
	if err := repo.Create(session); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, err := repo.Get(session.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	// Мутация снапшота не должна влиять на хранилище.
	first.LineItems[0].Total = 999999
	first.Totals[3].Amount = 999999

	second, err := repo.Get(session.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if second.LineItems[0].Total != 1000 {
		t.Fatalf("stored line item mutated: %d", second.LineItems[0].Total)
	}
	if second.Totals[3].Amount != 1000 {
		t.Fatalf("stored total mutated: %d", second.Totals[3].Amount)
	}
}

func TestCheckoutRepository_Save(t *testing.T) {
	repo := memory.NewCheckoutRepository()
	session := newSession("checkout_1", time.Now().UTC())
	if err := repo.Create(session); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(session.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	stored.Status = domain.CheckoutStatusCanceled
	if err := repo.Save(stored); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	updated, err := repo.Get(session.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.Status != domain.CheckoutStatusCanceled {
		t.Fatalf("expected canceled status, got %s", updated.Status)
	}
	if updated.Version != stored.Version+1 {
		t.Fatalf("expected version increment, got %d", updated.Version)
	}
}

func TestCheckoutRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewCheckoutRepository()
	session := newSession("checkout_1", time.Now().UTC())
	if err := repo.Create(session); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	session.Version = 42
	if err := repo.Save(session); !errors.Is(err, domain.ErrCheckoutVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestCheckoutRepository_ListOrdered(t *testing.T) {
	repo := memory.NewCheckoutRepository()
	base := time.Now().UTC()

	for i, id := range []string{"checkout_c", "checkout_a", "checkout_b"} {
		if err := repo.Create(newSession(id, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	sessions, err := repo.List(0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "checkout_c" || sessions[2].ID != "checkout_b" {
		t.Fatalf("unexpected order: %s, %s, %s", sessions[0].ID, sessions[1].ID, sessions[2].ID)
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(limited))
	}
}
