package domain

// LineItem — рассчитанная позиция сессии: запрошенный товар и его стоимость.
type LineItem struct {
	ID         string `json:"id"`
	Item       Item   `json:"item"`
	BaseAmount int64  `json:"base_amount"`
	Discount   int64  `json:"discount"`
	Subtotal   int64  `json:"subtotal"`
	Tax        int64  `json:"tax"`
	Total      int64  `json:"total"`
}

// BuildLineItem строит позицию из запрошенного item и записи каталога.
// Чистая функция: скидки и налоги в этом дизайне всегда нулевые.
func BuildLineItem(item Item, product Product) (LineItem, error) {
	if item.Quantity <= 0 {
		return LineItem{}, ErrItemQuantityInvalid
	}

	baseAmount := product.PriceMinor * int64(item.Quantity)
	var discount int64 = 0
	subtotal := baseAmount - discount
	var tax int64 = 0

	return LineItem{
		ID:         item.ID,
		Item:       item,
		BaseAmount: baseAmount,
		Discount:   discount,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal + tax,
	}, nil
}
