package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/kitanda/pricewatch/dbopen"
)

// GetCache returns the cached payload for key if it has not expired.
// An expired or absent entry is a miss; expired rows are dropped lazily
// by the next PutCache on the same key (INSERT OR REPLACE).
func (s *Store) GetCache(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := s.DB.QueryRowContext(ctx,
		`SELECT payload FROM cache WHERE key = ? AND expires_at > ?`,
		key, time.Now().UnixMilli()).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// PutCache stores a payload under key with the given TTL, replacing any
// previous (possibly stale) entry. Concurrent writers to the same key race
// with last-write-wins, which is fine: cached results are idempotently
// recomputable.
func (s *Store) PutCache(ctx context.Context, key, payload string, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixMilli()
	_, err := dbopen.Exec(ctx, s.DB,
		`INSERT OR REPLACE INTO cache (key, payload, expires_at) VALUES (?, ?, ?)`,
		key, payload, expiresAt)
	return err
}

// SweepCache removes all expired cache rows. Optional housekeeping: reads
// already filter on expiry, so this only reclaims space.
func (s *Store) SweepCache(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM cache WHERE expires_at <= ?`, time.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
