package store

import (
	"context"
	"fmt"
	"strings"
)

// queryCap bounds how many rows a relevance query may load for grouping.
const queryCap = 1000

// QueryInStock returns in-stock catalog entries matching the free-text
// query and filters, annotated with a relevance score.
//
// With a query, matching uses the FTS5 index and the score is the negated
// bm25 rank (higher = better). Without a query, all in-stock entries match
// with a uniform score of 1. Limit/Page in the filters are pagination hints
// for the caller and are not applied here: grouping needs the full match
// set before truncation.
func (s *Store) QueryInStock(ctx context.Context, query string, f Filters) ([]*Match, error) {
	var sb strings.Builder
	var args []any

	if query != "" {
		sb.WriteString(`SELECT ` + prefixed("p") + `, -f.rank AS score
			FROM products_fts f
			JOIN products p ON p.rowid = f.rowid
			WHERE products_fts MATCH ? AND p.in_stock = 1`)
		args = append(args, ftsQuery(query))
	} else {
		sb.WriteString(`SELECT ` + prefixed("p") + `, 1.0 AS score
			FROM products p
			WHERE p.in_stock = 1`)
	}

	if f.Store != "" {
		sb.WriteString(` AND p.store = ?`)
		args = append(args, f.Store)
	}
	if f.Category != "" {
		sb.WriteString(` AND p.category = ?`)
		args = append(args, f.Category)
	}
	if f.PriceMin != nil {
		sb.WriteString(` AND p.price >= ?`)
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		sb.WriteString(` AND p.price <= ?`)
		args = append(args, *f.PriceMax)
	}

	if query != "" {
		sb.WriteString(` ORDER BY f.rank`)
	} else {
		sb.WriteString(` ORDER BY p.price ASC`)
	}
	sb.WriteString(` LIMIT ?`)
	args = append(args, queryCap)

	rows, err := s.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		var m Match
		var inStock int
		var history string
		err := rows.Scan(
			&m.ID, &m.Name, &m.NameKey, &m.Brand, &m.Price, &m.Currency, &m.Store,
			&m.StoreURL, &m.ProductURL, &m.Category, &m.ImageURL, &inStock, &history,
			&m.LastUpdated, &m.CreatedAt, &m.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.InStock = inStock != 0
		if err := decodeHistory(history, &m.PriceHistory); err != nil {
			return nil, err
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func prefixed(alias string) string {
	cols := strings.Split(productColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// ftsQuery turns free user text into a safe FTS5 match expression: each
// token is double-quoted so punctuation never reaches the query parser.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, " ")
}
