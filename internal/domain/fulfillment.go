package domain

// FulfillmentType перечисляет виды доставки.
type FulfillmentType string

const (
	FulfillmentTypeShipping FulfillmentType = "shipping"
	FulfillmentTypeDigital  FulfillmentType = "digital"
)

// FulfillmentOption — способ доставки с собственными ценовыми компонентами.
// Компоненты хранятся в минимальных денежных единицах.
type FulfillmentOption struct {
	Type          FulfillmentType `json:"type"`
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Subtitle      string          `json:"subtitle,omitempty"`
	Carrier       string          `json:"carrier,omitempty"`
	SubtotalMinor int64           `json:"subtotal"`
	TaxMinor      int64           `json:"tax"`
	TotalMinor    int64           `json:"total"`
}
