// internal/countries/cache.go
//
// Cache keeps the last good territory snapshot in SQLite.
// FetchAll asks the wrapped source first; on success the snapshot is replaced,
// on failure the stored snapshot is served instead. Only snapshots where every
// record normalizes are stored, so a bad payload never overwrites a good one.

package countries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

var errCacheEmpty = errors.New("cache is empty")

// Cache wraps a Source with a SQLite snapshot.
type Cache struct {
	db  *sql.DB
	src territory.Source
}

// OpenCache opens (or creates) the cache database at path in front of src.
func OpenCache(path string, src territory.Source) (*Cache, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &Cache{db: db, src: src}, nil
}

// Close releases the database.
func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) FetchAll(ctx context.Context) ([]territory.Record, error) {
	recs, err := c.src.FetchAll(ctx)
	if err == nil {
		if serr := c.Store(ctx, recs); serr != nil {
			log.Warn().Err(serr).Msg("territory snapshot not stored")
		}
		return recs, nil
	}

	cached, at, cerr := c.Snapshot(ctx)
	if cerr != nil {
		return nil, fmt.Errorf("%w (cache: %v)", err, cerr)
	}
	log.Warn().Err(err).Time("fetched_at", at).Int("records", len(cached)).Msg("serving cached territory snapshot")
	return cached, nil
}

// Store replaces the snapshot with recs.
func (c *Cache) Store(ctx context.Context, recs []territory.Record) error {
	terrs := make([]territory.Territory, len(recs))
	for i, r := range recs {
		t, err := territory.Normalize(r)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		terrs[i] = t
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM territories`); err != nil {
		return fmt.Errorf("clear territories: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO territories (code, name, borders, position) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range terrs {
		borders, err := json.Marshal(t.Borders)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, t.Code, t.Name, string(borders), i); err != nil {
			return fmt.Errorf("insert %s: %w", t.Code, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot (id, fetched_at, records) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET fetched_at=excluded.fetched_at, records=excluded.records`,
		time.Now().UTC().Format(time.RFC3339), len(terrs),
	); err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	return tx.Commit()
}

// Snapshot returns the stored records in their original order and when they were fetched.
func (c *Cache) Snapshot(ctx context.Context) ([]territory.Record, time.Time, error) {
	var fetched string
	err := c.db.QueryRowContext(ctx, `SELECT fetched_at FROM snapshot WHERE id=1`).Scan(&fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, errCacheEmpty
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	at, _ := time.Parse(time.RFC3339, fetched)

	rows, err := c.db.QueryContext(ctx, `SELECT code, name, borders FROM territories ORDER BY position ASC`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var out []territory.Record
	for rows.Next() {
		var code, name, borders string
		if err := rows.Scan(&code, &name, &borders); err != nil {
			return nil, time.Time{}, err
		}
		r := territory.Record{Name: territory.Name{Common: name}, Code: code}
		if err := json.Unmarshal([]byte(borders), &r.Borders); err != nil {
			return nil, time.Time{}, fmt.Errorf("borders of %s: %w", code, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	if len(out) == 0 {
		return nil, time.Time{}, errCacheEmpty
	}
	return out, at, nil
}
