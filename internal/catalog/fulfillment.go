package catalog

import "github.com/vladislavdragonenkov/acs/internal/domain"

// fulfillmentOptions — фиксированный набор способов доставки, одинаковый для
// каждой сессии. Внешний rate-shopping коллаборатор мог бы заменить этот
// список, не затрагивая state machine.
var fulfillmentOptions = []domain.FulfillmentOption{
	{
		Type:          domain.FulfillmentTypeShipping,
		ID:            "free",
		Title:         "Take from Fridge",
		Subtitle:      "In a second",
		Carrier:       "Yourself",
		SubtotalMinor: 0,
		TaxMinor:      0,
		TotalMinor:    0,
	},
}

// FulfillmentOptions возвращает копию упорядоченного списка способов доставки.
func FulfillmentOptions() []domain.FulfillmentOption {
	result := make([]domain.FulfillmentOption, len(fulfillmentOptions))
	copy(result, fulfillmentOptions)
	return result
}
