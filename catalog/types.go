// Package catalog reconciles scraped grocery listings into a canonical
// product catalog with bounded price history, and answers the two
// analytical queries over it: grouped/ranked product search and
// cross-store price comparison.
//
// Persistence is a single SQLite database with an FTS5 relevance index.
// Both engines are read-only against the catalog and safe for concurrent
// use; merging is strictly sequential.
package catalog

import (
	"github.com/kitanda/pricewatch/catalog/internal/compare"
	"github.com/kitanda/pricewatch/catalog/internal/group"
	"github.com/kitanda/pricewatch/catalog/internal/merge"
	"github.com/kitanda/pricewatch/catalog/internal/store"
)

// Re-export internal types for the public API.
type (
	Listing      = store.Listing
	PricePoint   = store.PricePoint
	Product      = store.Product
	Match        = store.Match
	SearchFilters = store.Filters
	CatalogStats = store.CatalogStats

	MergeResult = merge.Result

	Group      = group.Group
	PriceRange = group.PriceRange

	Comparison      = compare.Comparison
	StoreComparison = compare.StoreComparison
	MarketStats     = compare.MarketStats
	Recommendation  = compare.Recommendation
)

// NormalizeName is the dedup key function shared by merge identity and
// grouping: lowercase, whitespace runs collapsed, trimmed.
func NormalizeName(s string) string {
	return store.NormalizeName(s)
}
