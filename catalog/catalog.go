package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitanda/pricewatch/catalog/internal/compare"
	"github.com/kitanda/pricewatch/catalog/internal/group"
	"github.com/kitanda/pricewatch/catalog/internal/memo"
	"github.com/kitanda/pricewatch/catalog/internal/merge"
	"github.com/kitanda/pricewatch/catalog/internal/store"
)

// Service is the catalog orchestrator: merge on the write side, grouping
// and comparison on the read side, with a memo tier in front of both.
type Service struct {
	store  *store.Store
	merger *merge.Merger
	memo   *memo.Cache
	logger *slog.Logger
	config *Config
}

// New creates a catalog Service on an already-opened database. The schema
// must have been applied (see ApplySchema).
func New(db *sql.DB, cfg *Config, logger *slog.Logger) *Service {
	if cfg == nil {
		cfg = defaultConfig()
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	st := store.NewStore(db)
	return &Service{
		store:  st,
		merger: merge.New(st, logger),
		memo:   memo.New(cfg.MemoTTL),
		logger: logger,
		config: cfg,
	}
}

// ApplySchema applies the catalog schema to a database. Idempotent.
func ApplySchema(db *sql.DB) error {
	return store.ApplySchema(db)
}

// MergeListings reconciles a scraped batch into the catalog and clears
// the memo tier so readers see the fresh snapshot.
func (s *Service) MergeListings(ctx context.Context, listings []Listing) (MergeResult, error) {
	res, err := s.merger.MergeListings(ctx, listings)
	if err != nil {
		return res, err
	}
	s.memo.Clear()
	return res, nil
}

// Search finds in-stock products matching the free-text query and
// filters, deduplicated into price-comparable groups and ranked by
// (relevance desc, min price asc). Results are memoized for MemoTTL.
func (s *Service) Search(ctx context.Context, query string, f SearchFilters) ([]*Group, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = s.config.SearchLimit
	}

	key := searchKey(query, f)
	v, err := s.memo.Do(key, func() (any, error) {
		matches, err := s.store.QueryInStock(ctx, query, f)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		return group.Build(matches, limit), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Group), nil
}

// CompareByName compares one product's prices across all stores. Returns
// ErrNotFound when no in-stock entry matches the name.
func (s *Service) CompareByName(ctx context.Context, productName string) (*Comparison, error) {
	key := "compare:" + NormalizeName(productName)
	v, err := s.memo.Do(key, func() (any, error) {
		matches, err := s.store.QueryInStock(ctx, productName, SearchFilters{})
		if err != nil {
			return nil, fmt.Errorf("compare %q: %w", productName, err)
		}
		c := compare.Build(productName, matches)
		if c == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, productName)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Comparison), nil
}

// Stores lists the distinct store names in the catalog.
func (s *Service) Stores(ctx context.Context) ([]string, error) {
	return s.store.DistinctStores(ctx)
}

// Categories lists the distinct non-empty categories in the catalog.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.DistinctCategories(ctx)
}

// Stats returns aggregate catalog counters.
func (s *Service) Stats(ctx context.Context) (*CatalogStats, error) {
	return s.store.Stats(ctx)
}

// CachedJSON looks up the persistent API-boundary cache tier.
func (s *Service) CachedJSON(ctx context.Context, key string) (string, bool, error) {
	return s.store.GetCache(ctx, key)
}

// PutCachedJSON stores a serialized response in the persistent cache tier.
// Failures are logged, never propagated: a broken cache must not break
// the response path.
func (s *Service) PutCachedJSON(ctx context.Context, key, payload string, ttl time.Duration) {
	if err := s.store.PutCache(ctx, key, payload, ttl); err != nil {
		s.logger.Warn("catalog: cache write failed", "key", key, "error", err)
	}
}

// SweepCache removes expired rows from the persistent cache tier and
// returns the number of rows reclaimed.
func (s *Service) SweepCache(ctx context.Context) (int64, error) {
	return s.store.SweepCache(ctx)
}

// ClearMemo drops the in-process memo tier.
func (s *Service) ClearMemo() {
	s.memo.Clear()
}

// searchKey canonically serializes a search request for memoization.
func searchKey(query string, f SearchFilters) string {
	b, _ := json.Marshal(f)
	return "search:" + query + ":" + string(b)
}
