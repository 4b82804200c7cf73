package domain

// TotalType определяет тип строки в разбивке итогов.
type TotalType string

const (
	TotalTypeSubtotal    TotalType = "subtotal"
	TotalTypeFulfillment TotalType = "fulfillment"
	TotalTypeTax         TotalType = "tax"
	TotalTypeTotal       TotalType = "total"
)

// Total — одна строка разбивки итогов сессии.
type Total struct {
	Type        TotalType `json:"type"`
	DisplayText string    `json:"display_text"`
	Amount      int64     `json:"amount"`
}

// ComputeTotals сводит позиции и выбранный способ доставки в упорядоченную
// разбивку {subtotal, fulfillment, tax, total}. Вызывается заново при каждом
// изменении сессии; итоги никогда не патчатся инкрементально.
func ComputeTotals(lineItems []LineItem, selected *FulfillmentOption) []Total {
	var itemsSubtotal, itemsTax int64
	for _, li := range lineItems {
		itemsSubtotal += li.Subtotal
		itemsTax += li.Tax
	}

	var fulfillmentAmount int64
	if selected != nil {
		fulfillmentAmount = selected.TotalMinor
	}

	return []Total{
		{Type: TotalTypeSubtotal, DisplayText: "Subtotal", Amount: itemsSubtotal},
		{Type: TotalTypeFulfillment, DisplayText: "Shipping", Amount: fulfillmentAmount},
		{Type: TotalTypeTax, DisplayText: "Tax", Amount: itemsTax},
		{Type: TotalTypeTotal, DisplayText: "Total", Amount: itemsSubtotal + fulfillmentAmount + itemsTax},
	}
}
