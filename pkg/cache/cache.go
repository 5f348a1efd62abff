package cache

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"compre-api/pkg/logger"
	"compre-api/pkg/models"

	_ "modernc.org/sqlite"
)

// Cache stores search result lists keyed by query and result count.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func New(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS search_results (
			query TEXT NOT NULL,
			num INTEGER NOT NULL,
			data TEXT NOT NULL,
			fetched_at DATETIME NOT NULL,
			PRIMARY KEY (query, num)
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Key normalises a query so "Laptop " and "laptop" share an entry.
func Key(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func (c *Cache) Get(query string, num int) ([]models.ProductSearchResult, bool) {
	var data string
	var fetchedAt time.Time

	err := c.db.QueryRow(
		`SELECT data, fetched_at FROM search_results WHERE query = ? AND num = ?`,
		Key(query), num,
	).Scan(&data, &fetchedAt)

	if err != nil {
		return nil, false
	}

	if c.now().Sub(fetchedAt) > c.ttl {
		return nil, false
	}

	var results []models.ProductSearchResult
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		logger.Log.Warn().Err(err).Str("query", query).Int("num", num).Msg("Cache: failed to unmarshal results")
		return nil, false
	}

	return results, true
}

func (c *Cache) Set(query string, num int, results []models.ProductSearchResult) {
	data, err := json.Marshal(results)
	if err != nil {
		logger.Log.Warn().Err(err).Str("query", query).Int("num", num).Msg("Cache: failed to marshal results")
		return
	}

	_, err = c.db.Exec(
		`INSERT INTO search_results (query, num, data, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(query, num)
		 DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at`,
		Key(query), num, string(data), c.now().UTC(),
	)
	if err != nil {
		logger.Log.Warn().Err(err).Str("query", query).Int("num", num).Msg("Cache: failed to store results")
	}
}

// Purge deletes expired entries and returns how many were removed.
func (c *Cache) Purge() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM search_results WHERE fetched_at < ?`, c.now().Add(-c.ttl).UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *Cache) Close() error {
	return c.db.Close()
}
