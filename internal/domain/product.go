package domain

// Origin описывает место производства товара.
type Origin struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Product — запись каталога. Иммутабельна после загрузки каталога.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PriceMinor      int64    `json:"price"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description,omitempty"`
	Stock           int32    `json:"stock"`
	Image           string   `json:"image,omitempty"`
	Origin          Origin   `json:"origin"`
	Tags            []string `json:"tags,omitempty"`
}

// Item — запрошенная клиентом позиция: идентификатор товара и количество.
type Item struct {
	ID       string `json:"id"`
	Quantity int32  `json:"quantity"`
}
