// Package compare builds cross-store price comparisons with market
// statistics and purchase recommendations.
package compare

import (
	"fmt"
	"sort"

	"github.com/kitanda/pricewatch/catalog/internal/store"
)

// ComparedProduct is one matched catalog entry as seen in a comparison,
// exposing its own price history.
type ComparedProduct struct {
	Name         string             `json:"name"`
	Price        float64            `json:"price"`
	Currency     string             `json:"currency"`
	LastUpdated  int64              `json:"lastUpdated"`
	PriceHistory []store.PricePoint `json:"priceHistory"`
}

// StoreComparison aggregates one store's matched entries.
type StoreComparison struct {
	Store        string            `json:"store"`
	MinPrice     float64           `json:"minPrice"`
	AvgPrice     float64           `json:"avgPrice"`
	ProductCount int               `json:"productCount"`
	Products     []ComparedProduct `json:"products"`
}

// PricedEntry names a store together with its best price.
type PricedEntry struct {
	Store    string  `json:"store"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// Distribution holds the order statistics of the matched prices.
// Quartiles are taken at sorted index floor(n*0.25) and floor(n*0.75).
type Distribution struct {
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
}

// MarketStats summarises the matched prices across all stores.
type MarketStats struct {
	TotalStores   int          `json:"totalStores"`
	TotalProducts int          `json:"totalProducts"`
	PriceRange    PriceRange   `json:"priceRange"`
	Distribution  Distribution `json:"priceDistribution"`
}

// PriceRange is the min/max/avg of all matched prices.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Recommendation is one generated purchase suggestion.
type Recommendation struct {
	Type     string `json:"type"`     // savings | market_analysis | timing
	Message  string `json:"message"`
	Priority string `json:"priority"` // high | medium | low
}

// Comparison is the full cross-store result for one product name.
type Comparison struct {
	ProductName     string             `json:"productName"`
	Stores          []*StoreComparison `json:"storeComparison"`
	LowestPrice     *PricedEntry       `json:"lowestPrice"`
	HighestPrice    *PricedEntry       `json:"highestPrice"`
	MarketStats     MarketStats        `json:"marketStats"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Build groups the matched entries by store, ranks stores by their best
// price, computes market statistics and generates recommendations.
// Returns nil when matches is empty.
func Build(productName string, matches []*store.Match) *Comparison {
	if len(matches) == 0 {
		return nil
	}

	byStore := make(map[string]*StoreComparison)
	var order []string
	currency := matches[0].Currency
	for _, m := range matches {
		sc, ok := byStore[m.Store]
		if !ok {
			sc = &StoreComparison{Store: m.Store, MinPrice: m.Price}
			byStore[m.Store] = sc
			order = append(order, m.Store)
		}
		sc.Products = append(sc.Products, ComparedProduct{
			Name:         m.Name,
			Price:        m.Price,
			Currency:     m.Currency,
			LastUpdated:  m.LastUpdated,
			PriceHistory: m.PriceHistory,
		})
		if m.Price < sc.MinPrice {
			sc.MinPrice = m.Price
		}
	}

	stores := make([]*StoreComparison, 0, len(order))
	for _, name := range order {
		sc := byStore[name]
		var sum float64
		for _, p := range sc.Products {
			sum += p.Price
		}
		sc.ProductCount = len(sc.Products)
		sc.AvgPrice = sum / float64(sc.ProductCount)
		stores = append(stores, sc)
	}
	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].MinPrice < stores[j].MinPrice
	})

	prices := make([]float64, 0, len(matches))
	for _, m := range matches {
		prices = append(prices, m.Price)
	}
	stats := marketStats(len(stores), prices)

	cheapest := stores[0]
	priciest := stores[len(stores)-1]

	return &Comparison{
		ProductName: productName,
		Stores:      stores,
		LowestPrice: &PricedEntry{
			Store: cheapest.Store, Price: cheapest.MinPrice, Currency: currency,
		},
		HighestPrice: &PricedEntry{
			Store: priciest.Store, Price: priciest.MinPrice, Currency: currency,
		},
		MarketStats:     stats,
		Recommendations: recommendations(stores, stats),
	}
}

func marketStats(storeCount int, prices []float64) MarketStats {
	min, max, sum := prices[0], prices[0], 0.0
	for _, p := range prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	n := len(sorted)

	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}
	q1 := sorted[n*25/100]
	q3 := sorted[n*75/100]

	return MarketStats{
		TotalStores:   storeCount,
		TotalProducts: n,
		PriceRange:    PriceRange{Min: min, Max: max, Avg: sum / float64(n)},
		Distribution:  Distribution{Median: median, Q1: q1, Q3: q3, IQR: q3 - q1},
	}
}

// recommendations generates suggestions in a fixed order: savings (high)
// when at least two stores matched, market variance warning (medium) when
// the max price exceeds 1.5x the average, and always a timing note (low).
func recommendations(stores []*StoreComparison, stats MarketStats) []Recommendation {
	var recs []Recommendation

	if len(stores) > 1 {
		cheapest := stores[0]
		priciest := stores[len(stores)-1]
		savings := priciest.MinPrice - cheapest.MinPrice
		percent := savings / priciest.MinPrice * 100
		recs = append(recs, Recommendation{
			Type: "savings",
			Message: fmt.Sprintf("Pode poupar até %.2f AOA (%.1f%%) comprando em %s",
				savings, percent, cheapest.Store),
			Priority: "high",
		})
	}

	if stats.PriceRange.Max > stats.PriceRange.Avg*1.5 {
		recs = append(recs, Recommendation{
			Type:     "market_analysis",
			Message:  "Grande variação de preços no mercado. Compare bem antes de comprar.",
			Priority: "medium",
		})
	}

	recs = append(recs, Recommendation{
		Type:     "timing",
		Message:  "Preços podem variar. Considere monitorar por alguns dias.",
		Priority: "low",
	})
	return recs
}
