// Package group clusters relevance-matched catalog entries into
// price-comparable product groups.
//
// The dedup key across stores is the normalized product name. Grouping is
// a pure in-memory computation over rows the store has already fetched.
package group

import (
	"math"
	"sort"

	"github.com/kitanda/pricewatch/catalog/internal/store"
)

// DefaultLimit is the maximum number of groups returned when the caller
// does not specify one.
const DefaultLimit = 50

// PriceRange summarises the price spread within a group. Avg is rounded
// to 2 decimals.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Group is a cluster of catalog entries judged to be the same product.
type Group struct {
	ProductName string         `json:"productName"` // normalized name key
	Products    []*store.Match `json:"products"`
	PriceRange  PriceRange     `json:"priceRange"`
	StoreCount  int            `json:"storeCount"`
	BestDeal    *store.Match   `json:"bestDeal"`
	score       float64
}

// Build groups matches by normalized name, computes per-group price
// statistics, sorts by (relevance desc, min price asc) and truncates to
// limit. Ordering is stable for a fixed input.
func Build(matches []*store.Match, limit int) []*Group {
	if limit <= 0 {
		limit = DefaultLimit
	}

	byKey := make(map[string]*Group)
	var order []string
	for _, m := range matches {
		key := m.NameKey
		if key == "" {
			key = store.NormalizeName(m.Name)
		}
		g, ok := byKey[key]
		if !ok {
			g = &Group{ProductName: key}
			byKey[key] = g
			order = append(order, key)
		}
		g.Products = append(g.Products, m)
	}

	groups := make([]*Group, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		g.finalize()
		groups = append(groups, g)
	}

	// Relevance wins; min price breaks ties. Stable so equal groups keep
	// their first-seen order.
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].score != groups[j].score {
			return groups[i].score > groups[j].score
		}
		return groups[i].PriceRange.Min < groups[j].PriceRange.Min
	})

	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// finalize computes the group statistics from its members.
func (g *Group) finalize() {
	stores := make(map[string]struct{}, len(g.Products))
	min, max, sum := math.MaxFloat64, -math.MaxFloat64, 0.0
	for _, m := range g.Products {
		stores[m.Store] = struct{}{}
		if m.Price < min {
			min = m.Price
		}
		if m.Price > max {
			max = m.Price
		}
		sum += m.Price
		if m.Score > g.score {
			g.score = m.Score
		}
	}

	g.StoreCount = len(stores)
	g.PriceRange = PriceRange{
		Min: min,
		Max: max,
		Avg: round2(sum / float64(len(g.Products))),
	}

	// First member at the minimum price wins ties.
	for _, m := range g.Products {
		if m.Price == min {
			g.BestDeal = m
			break
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
