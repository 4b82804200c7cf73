package catalog

import "github.com/vladislavdragonenkov/acs/internal/domain"

// Static реализует доменные порты каталога поверх встроенных данных пакета.
type Static struct{}

// NewStatic возвращает статический каталог для инъекции в сервисы.
func NewStatic() Static {
	return Static{}
}

// Lookup возвращает запись каталога по идентификатору товара.
func (Static) Lookup(id string) (domain.Product, bool) {
	return Lookup(id)
}

// Products возвращает все товары в фиксированном порядке.
func (Static) Products() []domain.Product {
	return Products()
}

// Options возвращает фиксированный список способов доставки.
func (Static) Options() []domain.FulfillmentOption {
	return FulfillmentOptions()
}

var (
	_ domain.ProductCatalog     = Static{}
	_ domain.FulfillmentCatalog = Static{}
)
