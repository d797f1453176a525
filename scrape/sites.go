package scrape

import (
	"log/slog"
	"time"
)

// Kibabo is the Kibabo Online store definition.
func Kibabo() Site {
	return Site{
		Name:    "Kibabo Online",
		BaseURL: "https://www.kibabo.co.ao/pt/",
		Selectors: SelectorSet{
			SearchInput: `input[placeholder="O que procura?"]`,
			WaitFor:     ".product-item, .produto",
			Item:        ".product-item, .produto",
			Name:        ".product-name, .nome-produto, h3, h4, .title",
			Price:       ".price, .preco, .valor",
			Brand:       ".brand, .marca",
		},
	}
}

// Meumerkado is the MEUMERKADO store definition.
func Meumerkado() Site {
	return Site{
		Name:    "MEUMERKADO",
		BaseURL: "https://meumerkado.com/",
		Selectors: SelectorSet{
			SearchInput: `input[title="Procurar produtos"]`,
			WaitFor:     ".product-item, .ty-grid-list__item",
			Item:        ".product-item, .ty-grid-list__item",
			Name:        ".product-title, .ty-grid-list__product-name, h3, h4, a[title]",
			NameAttr:    "title",
			Price:       ".ty-price, .price, .valor",
			Brand:       ".brand, .marca, .ty-grid-list__brand",
		},
	}
}

// DefaultAdapters builds the adapters for the supported stores.
func DefaultAdapters(r Renderer, timeout time.Duration, logger *slog.Logger) []Adapter {
	return []Adapter{
		NewSiteAdapter(Kibabo(), r, timeout, logger),
		NewSiteAdapter(Meumerkado(), r, timeout, logger),
	}
}
