package domain_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

func TestBuildLineItem(t *testing.T) {
	product := domain.Product{ID: "item_001", Name: "Glass of wine", PriceMinor: 500}

	li, err := domain.BuildLineItem(domain.Item{ID: "item_001", Quantity: 2}, product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if li.BaseAmount != 1000 || li.Discount != 0 || li.Subtotal != 1000 || li.Tax != 0 || li.Total != 1000 {
		t.Fatalf("unexpected amounts: %+v", li)
	}
	if li.Item.Quantity != 2 || li.ID != "item_001" {
		t.Fatalf("unexpected item reference: %+v", li)
	}
}

func TestBuildLineItem_QuantityInvalid(t *testing.T) {
	product := domain.Product{ID: "item_001", PriceMinor: 500}

	if _, err := domain.BuildLineItem(domain.Item{ID: "item_001", Quantity: 0}, product); !errors.Is(err, domain.ErrItemQuantityInvalid) {
		t.Fatalf("expected ErrItemQuantityInvalid, got %v", err)
	}
}

func TestComputeTotals(t *testing.T) {
	lineItems := []domain.LineItem{
		{Subtotal: 1000, Tax: 0, Total: 1000},
		{Subtotal: 400, Tax: 0, Total: 400},
	}

	cases := []struct {
		name        string
		selected    *domain.FulfillmentOption
		fulfillment int64
		total       int64
	}{
		{
			name:        "no option selected",
			selected:    nil,
			fulfillment: 0,
			total:       1400,
		},
		{
			name: "free shipping",
			selected: &domain.FulfillmentOption{
				Type: domain.FulfillmentTypeShipping, ID: "free",
			},
			fulfillment: 0,
			total:       1400,
		},
		{
			name: "paid shipping",
			selected: &domain.FulfillmentOption{
				Type: domain.FulfillmentTypeShipping, ID: "express", TotalMinor: 250,
			},
			fulfillment: 250,
			total:       1650,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := domain.ComputeTotals(lineItems, tc.selected)

			if len(totals) != 4 {
				t.Fatalf("expected 4 totals, got %d", len(totals))
			}
			// Порядок фиксирован: subtotal, fulfillment, tax, total.
			wantOrder := []domain.TotalType{
				domain.TotalTypeSubtotal,
				domain.TotalTypeFulfillment,
				domain.TotalTypeTax,
				domain.TotalTypeTotal,
			}
			for i, want := range wantOrder {
				if totals[i].Type != want {
					t.Fatalf("totals[%d]: expected %s, got %s", i, want, totals[i].Type)
				}
			}
			if totals[0].Amount != 1400 {
				t.Errorf("subtotal: expected 1400, got %d", totals[0].Amount)
			}
			if totals[1].Amount != tc.fulfillment {
				t.Errorf("fulfillment: expected %d, got %d", tc.fulfillment, totals[1].Amount)
			}
			if totals[3].Amount != tc.total {
				t.Errorf("total: expected %d, got %d", tc.total, totals[3].Amount)
			}
			if totals[3].Amount != totals[0].Amount+totals[1].Amount+totals[2].Amount {
				t.Error("grand total must equal subtotal+fulfillment+tax")
			}
		})
	}
}
