package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/servicedoc"
)

// Compile-time interface verification.
var _ servicedoc.ParseCache = (*ParseCache)(nil)

// ParseCache implements servicedoc.ParseCache using SQLite. Results are
// keyed by a 64-bit xxHash of the markup, templates and roster. The key
// is not collision resistant: it rules out accidental collisions, not
// inputs crafted to collide with another client's upload.
type ParseCache struct {
	db *DB
}

// NewParseCache creates a new ParseCache.
func NewParseCache(db *DB) *ParseCache {
	return &ParseCache{db: db}
}

// FindParseResult retrieves the stored result for the request's content.
func (c *ParseCache) FindParseResult(ctx context.Context, req *servicedoc.ParseRequest) (*servicedoc.ParseResult, error) {
	key, err := cacheKey(req)
	if err != nil {
		return nil, err
	}

	var result string
	err = c.db.QueryRowContext(ctx, "SELECT result FROM parse_cache WHERE key = ?", key).Scan(&result)
	if err == sql.ErrNoRows {
		return nil, servicedoc.Errorf(servicedoc.ENOTFOUND, "parse result not cached")
	}
	if err != nil {
		return nil, err
	}

	var res servicedoc.ParseResult
	if err := json.Unmarshal([]byte(result), &res); err != nil {
		return nil, fmt.Errorf("failed to decode cached parse result: %w", err)
	}
	return &res, nil
}

// SaveParseResult stores res, replacing any earlier result for the same content.
func (c *ParseCache) SaveParseResult(ctx context.Context, req *servicedoc.ParseRequest, res *servicedoc.ParseResult) error {
	key, err := cacheKey(req)
	if err != nil {
		return err
	}

	result, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode parse result: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO parse_cache (key, result, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET result = excluded.result, created_at = excluded.created_at
	`, key, string(result), time.Now().UTC().Format(time.RFC3339))

	return err
}

// PruneParseResults removes results stored before cutoff and reports how
// many were removed.
func (c *ParseCache) PruneParseResults(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM parse_cache WHERE created_at < ?", cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// cacheKey hashes everything that influences a parse. The filename is
// excluded because it is only echoed back.
func cacheKey(req *servicedoc.ParseRequest) (string, error) {
	templates, err := json.Marshal(req.Templates)
	if err != nil {
		return "", fmt.Errorf("failed to encode templates: %w", err)
	}
	personnel, err := json.Marshal(req.Personnel)
	if err != nil {
		return "", fmt.Errorf("failed to encode personnel: %w", err)
	}

	h := xxhash.New()
	_, _ = h.WriteString(req.HTML)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(templates)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(personnel)
	return hex.EncodeToString(h.Sum(nil)), nil
}
