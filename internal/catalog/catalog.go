// Пакет catalog содержит статический каталог товаров и фиксированный
// список способов доставки. Оба набора неизменяемы в рантайме; функции
// пакета возвращают копии, чтобы вызывающий код не мог мутировать каталог.
package catalog

import "github.com/vladislavdragonenkov/acs/internal/domain"

// DefaultCurrency — валюта всех сессий в этом дизайне.
const DefaultCurrency = "usd"

// порядок идентификаторов фиксирует порядок выдачи /products.
var productOrder = []string{
	"item_001", "item_002", "item_003", "item_004", "item_005", "item_006",
	"item_007", "item_008", "item_009", "item_010", "item_011",
}

var products = map[string]domain.Product{
	"item_001": {
		ID:          "item_001",
		Name:        "Glass of wine",
		PriceMinor:  500,
		Description: "Red or white",
		LongDescription: "A glass of wine, whether red or white, offers a delightful experience. " +
			"Red wines are typically made from dark-colored grape varieties and are known for their rich flavors and tannins. " +
			"White wines, produced from green or yellowish grapes, are appreciated for their crispness and aromatic qualities.",
		Stock:  100,
		Origin: domain.Origin{City: "Various", Country: "Multiple"},
		Tags:   []string{"soft"},
	},
	"item_002": {
		ID:          "item_002",
		Name:        "Tea / coffee",
		PriceMinor:  200,
		Description: "No description",
		LongDescription: "Tea and coffee are two of the most popular hot beverages worldwide. " +
			"Tea, originating from China, comes in various types like green, black, and oolong. " +
			"Coffee, believed to have been first cultivated in Ethiopia, is renowned for its stimulating effects.",
		Stock:  100,
		Origin: domain.Origin{City: "Various", Country: "Multiple"},
		Tags:   []string{"soft", "Alcohol-free"},
	},
	"item_003": {
		ID:          "item_003",
		Name:        "APIC Session IPA",
		PriceMinor:  400,
		Description: "Beer crafted in Belgium. Made by apes. 5%",
		LongDescription: "APIC Session IPA is a refreshing Belgian craft beer with a moderate 5% alcohol content. " +
			"With its balanced hop profile and crisp finish, it offers the characteristic bitterness of an IPA " +
			"while remaining light and drinkable.",
		Stock:  100,
		Origin: domain.Origin{City: "Brussels", Country: "Belgium"},
		Tags:   []string{"beer", "local"},
	},
	"item_004": {
		ID:          "item_004",
		Name:        "Soft drink",
		PriceMinor:  300,
		Description: "Fritz Lemonade (rhubarb, lemon, orange)",
		LongDescription: "Fritz Lemonade is a premium soft drink featuring a unique blend of rhubarb, lemon, " +
			"and orange flavors. Made with natural ingredients, it's a sophisticated alternative to traditional soft drinks.",
		Stock:  100,
		Origin: domain.Origin{City: "Hamburg", Country: "Germany"},
		Tags:   []string{"soft", "Alcohol-free"},
	},
	"item_005": {
		ID:          "item_005",
		Name:        "Trotinette",
		PriceMinor:  350,
		Description: "Alcohol-free beer",
		LongDescription: "Trotinette is an alcohol-free beer brewed by Brasserie de la Senne in Brussels. " +
			"With its light body and crisp finish, it offers the taste of craft beer while staying alcohol-free.",
		Stock:  100,
		Origin: domain.Origin{City: "Brussels", Country: "Belgium"},
		Tags:   []string{"beer", "Alcohol-free", "local"},
	},
	"item_006": {
		ID:          "item_006",
		Name:        "Grisette Blonde",
		PriceMinor:  400,
		Description: "Light & Fresh 5,5%",
		LongDescription: "Grisette Blonde is a light and refreshing Belgian ale brewed by Brasserie de la Senne. " +
			"It is characterized by its light body, crisp finish, and fresh, clean flavors.",
		Stock:  100,
		Origin: domain.Origin{City: "Brussels", Country: "Belgium"},
		Tags:   []string{"beer", "local"},
	},
	"item_007": {
		ID:          "item_007",
		Name:        "Grisette Blanche",
		PriceMinor:  400,
		Description: "Fresh & Citrus 5,5%",
		LongDescription: "Grisette Blanche is a Belgian white ale known for its fresh, citrusy character, " +
			"with notes of orange peel and coriander typical of Belgian white beers.",
		Stock:  100,
		Origin: domain.Origin{City: "Brussels", Country: "Belgium"},
		Tags:   []string{"beer", "local"},
	},
	"item_008": {
		ID:          "item_008",
		Name:        "Zinnebir",
		PriceMinor:  400,
		Description: "Malty Pale ale 5,8%",
		LongDescription: "Zinnebir is a Belgian pale ale named after the Zenne River that flows through Brussels. " +
			"It showcases a malty character balanced with hop bitterness and notes of caramel and biscuit.",
		Stock:  100,
		Origin: domain.Origin{City: "Brussels", Country: "Belgium"},
		Tags:   []string{"beer", "local"},
	},
	"item_009": {
		ID:          "item_009",
		Name:        "Taras Boulba",
		PriceMinor:  400,
		Description: "Extra hoppy 4,5%",
		LongDescription: "Taras Boulba is a hoppy Belgian ale named after Nikolai Gogol's novella. " +
			"It features a light body and assertive hop character with refreshing bitterness.",
		Stock:  100,
		Origin: domain.Origin{City: "Brussels", Country: "Belgium"},
		Tags:   []string{"beer", "local"},
	},
	"item_010": {
		ID:          "item_010",
		Name:        "Jambe de Bois",
		PriceMinor:  450,
		Description: "Hoppy Belgian triple - 8%",
		LongDescription: "Jambe de Bois is a generously hopped Belgian Tripel with an 8% alcohol content, " +
			"notes of pear and ripe banana from fermentation, and floral, spicy hop aromas.",
		Stock:  100,
		Origin: domain.Origin{City: "Brussels", Country: "Belgium"},
		Tags:   []string{"beer", "local"},
	},
	"item_011": {
		ID:          "item_011",
		Name:        "Mug",
		PriceMinor:  500,
		Description: "Reusable mug",
		LongDescription: "A reusable mug is an eco-friendly alternative to disposable cups, " +
			"designed for enjoying hot beverages like coffee and tea.",
		Stock:  100,
		Origin: domain.Origin{City: "Various", Country: "Multiple"},
		Tags:   []string{"soft"},
	},
}

// Lookup возвращает запись каталога по идентификатору товара.
func Lookup(id string) (domain.Product, bool) {
	product, ok := products[id]
	if !ok {
		return domain.Product{}, false
	}
	return copyProduct(product), true
}

// Products возвращает все товары в фиксированном порядке каталога.
func Products() []domain.Product {
	result := make([]domain.Product, 0, len(productOrder))
	for _, id := range productOrder {
		result = append(result, copyProduct(products[id]))
	}
	return result
}

// copyProduct копирует и слайс тегов: поверхностная копия разделяла бы
// backing array с записью каталога.
func copyProduct(product domain.Product) domain.Product {
	product.Tags = append(product.Tags[:0:0], product.Tags...)
	return product
}
