// Package store is the data access layer for the product catalog.
//
// The catalog is a single SQLite database: one products row per
// (normalized name, store) pair with an embedded price history, an FTS5
// index for relevance search, and a TTL cache table for the API boundary.
package store

import "database/sql"

// Store wraps the catalog database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}
