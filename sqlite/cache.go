package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pagemark/pagemark"
)

// Compile-time interface verification.
var _ pagemark.ConversionCache = (*CacheService)(nil)

// CacheService implements pagemark.ConversionCache using SQLite.
// Entries are keyed by the xxHash of the URL so the primary key stays
// short regardless of URL length.
type CacheService struct {
	db *DB
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *DB) *CacheService {
	return &CacheService{db: db}
}

// hashURL computes xxHash of a URL and returns it as a hex string.
func hashURL(url string) string {
	h := xxhash.Sum64String(url)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b[:])
}

// Get returns the cached conversion for a URL, or ENOTFOUND on a miss.
func (s *CacheService) Get(ctx context.Context, url string) (*pagemark.CachedConversion, error) {
	var (
		cached    pagemark.CachedConversion
		statsJSON string
		createdAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT url, markdown, stats, created_at
		FROM conversions
		WHERE url_hash = ?
	`, hashURL(url)).Scan(&cached.URL, &cached.Result.Markdown, &statsJSON, &createdAt)

	if err == sql.ErrNoRows {
		return nil, pagemark.Errorf(pagemark.ENOTFOUND, "no cached conversion for %q", url)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(statsJSON), &cached.Result.Stats); err != nil {
		return nil, pagemark.Errorf(pagemark.EINTERNAL, "corrupt cached stats for %q: %v", url, err)
	}
	if cached.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, pagemark.Errorf(pagemark.EINTERNAL, "corrupt cached timestamp for %q: %v", url, err)
	}

	return &cached, nil
}

// Put stores a conversion result, replacing any previous entry for the
// same URL.
func (s *CacheService) Put(ctx context.Context, url string, result *pagemark.ConversionResult) error {
	if result == nil {
		return pagemark.Errorf(pagemark.EINVALID, "conversion result required")
	}

	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversions (url_hash, url, markdown, stats, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url_hash) DO UPDATE SET
			url = excluded.url,
			markdown = excluded.markdown,
			stats = excluded.stats,
			created_at = excluded.created_at
	`, hashURL(url), url, result.Markdown, string(statsJSON), time.Now().UTC().Format(time.RFC3339))

	return err
}
