package store

import (
	"context"
	"database/sql"
)

// DistinctStores returns the distinct store names present in the catalog.
func (s *Store) DistinctStores(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT store FROM products ORDER BY store`)
}

// DistinctCategories returns the distinct non-empty categories.
func (s *Store) DistinctCategories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT category FROM products WHERE category != '' ORDER BY category`)
}

func (s *Store) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Stats returns aggregate counters over the catalog: in-stock product
// count, distinct store and category counts, and the most recent update.
func (s *Store) Stats(ctx context.Context) (*CatalogStats, error) {
	var stats CatalogStats
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE in_stock = 1`).Scan(&stats.TotalProducts)
	if err != nil {
		return nil, err
	}
	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT store) FROM products`).Scan(&stats.TotalStores)
	if err != nil {
		return nil, err
	}
	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT category) FROM products WHERE category != ''`).Scan(&stats.TotalCategories)
	if err != nil {
		return nil, err
	}
	var last sql.NullInt64
	err = s.DB.QueryRowContext(ctx,
		`SELECT MAX(last_updated) FROM products`).Scan(&last)
	if err != nil {
		return nil, err
	}
	if last.Valid {
		stats.LastUpdate = last.Int64
	}
	return &stats, nil
}
