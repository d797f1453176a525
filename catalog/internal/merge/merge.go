// Package merge reconciles scraped listings into the persisted catalog.
//
// Listings are processed one at a time, sequentially, so two listings in
// the same batch can never race on the same (name_key, store) identity.
// A storage failure on one listing is logged and skipped; the batch
// continues.
package merge

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kitanda/pricewatch/catalog/internal/store"
)

// Result reports aggregate merge counts. Observability only: a partially
// completed batch leaves already-merged entries intact.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Merger applies listing batches to a catalog store.
type Merger struct {
	store  *store.Store
	logger *slog.Logger
	newID  func() string
}

// New creates a Merger.
func New(st *store.Store, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		store:  st,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// MergeListings reconciles a batch of listings against the catalog.
//
// Per listing: look up the (normalized name, store) identity. Absent →
// insert with empty history, count as created. Present with a different
// price → push (oldPrice, oldLastUpdated) onto the history, truncate to
// the HistoryCap most recent entries, overwrite all fields, count as
// updated. Present with the same price → refresh non-price fields without
// touching the history; still counts as updated.
func (m *Merger) MergeListings(ctx context.Context, listings []store.Listing) (Result, error) {
	var res Result
	for i := range listings {
		l := &listings[i]
		if l.Name == "" || l.Price < 0 {
			m.logger.Warn("merge: dropping invalid listing",
				"name", l.Name, "price", l.Price, "store", l.Store)
			continue
		}

		created, err := m.mergeOne(ctx, l)
		if err != nil {
			m.logger.Error("merge: listing failed",
				"name", l.Name, "store", l.Store, "error", err)
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	m.logger.Info("merge: batch complete",
		"listings", len(listings), "created", res.Created, "updated", res.Updated)
	return res, nil
}

func (m *Merger) mergeOne(ctx context.Context, l *store.Listing) (created bool, err error) {
	key := store.NormalizeName(l.Name)

	existing, err := m.store.GetProductByKey(ctx, key, l.Store)
	if err != nil {
		return false, err
	}

	if existing == nil {
		p := &store.Product{
			ID:      m.newID(),
			NameKey: key,
			Price:   l.Price,
		}
		applyListing(p, l)
		return true, m.store.InsertProduct(ctx, p)
	}

	if existing.Price != l.Price {
		existing.PriceHistory = append(existing.PriceHistory, store.PricePoint{
			Price: existing.Price,
			Date:  existing.LastUpdated,
		})
		if n := len(existing.PriceHistory); n > store.HistoryCap {
			existing.PriceHistory = existing.PriceHistory[n-store.HistoryCap:]
		}
		existing.Price = l.Price
	}

	applyListing(existing, l)
	existing.NameKey = key
	return false, m.store.UpdateProduct(ctx, existing)
}

// applyListing refreshes the non-price fields from the listing. Price and
// history are handled by the caller so the unchanged-price path leaves
// both alone.
func applyListing(p *store.Product, l *store.Listing) {
	p.Name = l.Name
	p.Brand = l.Brand
	p.Currency = l.Currency
	p.Store = l.Store
	p.StoreURL = l.StoreURL
	p.ProductURL = l.ProductURL
	p.Category = l.Category
	p.ImageURL = l.ImageURL
	p.InStock = l.InStock
}
