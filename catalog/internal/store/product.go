package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kitanda/pricewatch/dbopen"
)

const productColumns = `id, name, name_key, brand, price, currency, store,
	store_url, product_url, category, image_url, in_stock, price_history,
	last_updated, created_at`

// InsertProduct adds a new catalog entry.
func (s *Store) InsertProduct(ctx context.Context, p *Product) error {
	now := time.Now().UnixMilli()
	if p.CreatedAt == 0 {
		p.CreatedAt = now
	}
	if p.LastUpdated == 0 {
		p.LastUpdated = now
	}
	if p.NameKey == "" {
		p.NameKey = NormalizeName(p.Name)
	}
	history, err := marshalHistory(p.PriceHistory)
	if err != nil {
		return err
	}

	_, err = dbopen.Exec(ctx, s.DB,
		`INSERT INTO products (id, name, name_key, brand, price, currency, store,
		store_url, product_url, category, image_url, in_stock, price_history,
		last_updated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.NameKey, p.Brand, p.Price, p.Currency, p.Store,
		p.StoreURL, p.ProductURL, p.Category, p.ImageURL, p.InStock, history,
		p.LastUpdated, p.CreatedAt,
	)
	return err
}

// UpdateProduct overwrites all mutable fields of a catalog entry,
// including its price history.
func (s *Store) UpdateProduct(ctx context.Context, p *Product) error {
	p.LastUpdated = time.Now().UnixMilli()
	history, err := marshalHistory(p.PriceHistory)
	if err != nil {
		return err
	}

	_, err = dbopen.Exec(ctx, s.DB,
		`UPDATE products SET name=?, name_key=?, brand=?, price=?, currency=?,
		store_url=?, product_url=?, category=?, image_url=?, in_stock=?,
		price_history=?, last_updated=?
		WHERE id=?`,
		p.Name, p.NameKey, p.Brand, p.Price, p.Currency,
		p.StoreURL, p.ProductURL, p.Category, p.ImageURL, p.InStock,
		history, p.LastUpdated, p.ID,
	)
	return err
}

// GetProductByKey retrieves the catalog entry for a (name_key, store)
// identity pair, or nil when absent.
func (s *Store) GetProductByKey(ctx context.Context, nameKey, storeName string) (*Product, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE name_key = ? AND store = ?`,
		nameKey, storeName)
	return scanProduct(row)
}

// GetProduct retrieves a catalog entry by ID, or nil when absent.
func (s *Store) GetProduct(ctx context.Context, id string) (*Product, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// CountProducts returns the total number of catalog entries.
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row *sql.Row) (*Product, error) {
	p, err := scanProductFrom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func scanProductFrom(row rowScanner) (*Product, error) {
	var p Product
	var inStock int
	var history string
	err := row.Scan(
		&p.ID, &p.Name, &p.NameKey, &p.Brand, &p.Price, &p.Currency, &p.Store,
		&p.StoreURL, &p.ProductURL, &p.Category, &p.ImageURL, &inStock, &history,
		&p.LastUpdated, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.InStock = inStock != 0
	if err := decodeHistory(history, &p.PriceHistory); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeHistory(raw string, into *[]PricePoint) error {
	if raw == "" || raw == "[]" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), into); err != nil {
		return fmt.Errorf("decode price history: %w", err)
	}
	return nil
}

func marshalHistory(h []PricePoint) (string, error) {
	if len(h) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("encode price history: %w", err)
	}
	return string(b), nil
}
