package store

import "database/sql"

// Schema is the complete catalog schema. Idempotent: safe to apply on boot.
const Schema = `
-- Reconciled product catalog: one row per (name_key, store)
CREATE TABLE IF NOT EXISTS products (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    name_key      TEXT NOT NULL,
    brand         TEXT NOT NULL DEFAULT '',
    price         REAL NOT NULL CHECK (price >= 0),
    currency      TEXT NOT NULL DEFAULT 'AOA',
    store         TEXT NOT NULL,
    store_url     TEXT NOT NULL DEFAULT '',
    product_url   TEXT NOT NULL DEFAULT '',
    category      TEXT NOT NULL DEFAULT '',
    image_url     TEXT NOT NULL DEFAULT '',
    in_stock      INTEGER NOT NULL DEFAULT 1,
    price_history TEXT NOT NULL DEFAULT '[]',
    last_updated  INTEGER NOT NULL,
    created_at    INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_identity ON products(name_key, store);
CREATE INDEX IF NOT EXISTS idx_products_store ON products(store);
CREATE INDEX IF NOT EXISTS idx_products_updated ON products(last_updated DESC);

-- FTS5 relevance index over name, brand and category
CREATE VIRTUAL TABLE IF NOT EXISTS products_fts USING fts5(
    name, brand, category, content='products', content_rowid='rowid',
    tokenize='unicode61 remove_diacritics 2'
);

-- Triggers to keep FTS5 in sync
CREATE TRIGGER IF NOT EXISTS products_ai AFTER INSERT ON products BEGIN
    INSERT INTO products_fts(rowid, name, brand, category) VALUES (new.rowid, new.name, new.brand, new.category);
END;
CREATE TRIGGER IF NOT EXISTS products_ad AFTER DELETE ON products BEGIN
    INSERT INTO products_fts(products_fts, rowid, name, brand, category) VALUES('delete', old.rowid, old.name, old.brand, old.category);
END;
CREATE TRIGGER IF NOT EXISTS products_au AFTER UPDATE ON products BEGIN
    INSERT INTO products_fts(products_fts, rowid, name, brand, category) VALUES('delete', old.rowid, old.name, old.brand, old.category);
    INSERT INTO products_fts(rowid, name, brand, category) VALUES (new.rowid, new.name, new.brand, new.category);
END;

-- API-boundary response cache (timestamp expiry, no capacity eviction)
CREATE TABLE IF NOT EXISTS cache (
    key        TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_expiry ON cache(expires_at);
`

// ApplySchema creates all tables, indexes and triggers on the given database.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
