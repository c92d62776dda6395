// Package cache implements the content-addressed build cache: a source
// file plus compile mode hashes to a key, and a cache hit replays the
// stored assembly/IR text instead of re-running the lowering and codegen
// passes. Backends are pluggable over database/sql, selected by the DSN
// scheme the --cache flag is given.
package cache

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Cache wraps a database/sql handle holding one "builds" table keyed by
// content hash.
type Cache struct {
	db     *sql.DB
	driver string
}

// Open parses dsn's scheme to pick a driver (sqlite is the default when no
// scheme is given) and opens the backing store, creating the builds table
// if it doesn't exist yet.
func Open(dsn string) (*Cache, error) {
	driver, source := resolveDriver(dsn)
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", driver, err)
	}
	c := &Cache{db: db, driver: driver}
	if err := c.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// resolveDriver maps a DSN scheme prefix to a registered database/sql
// driver name. The sqlite:// and mysql:// schemes are stripped from the
// source passed to sql.Open; postgres and sqlserver DSNs are passed whole.
func resolveDriver(dsn string) (driver, source string) {
	switch {
	case dsn == "":
		return "sqlite", "sysyc-cache.db"
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql", strings.TrimPrefix(dsn, "mysql://")
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver", dsn
	default:
		return "sqlite", dsn
	}
}

func (c *Cache) ensureSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS builds (
		cache_key TEXT PRIMARY KEY,
		output TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Key hashes the normalized source plus the compile mode with BLAKE2b-256,
// so a byte-identical recompile under the same mode always maps to the
// same row regardless of file path or timestamps.
func Key(source, mode string) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // only fails for an invalid key length, which nil never is
	}
	h.Write([]byte(normalize(source)))
	h.Write([]byte{0})
	h.Write([]byte(mode))
	return hex.EncodeToString(h.Sum(nil))
}

// normalize strips trailing whitespace per line and a trailing newline run,
// so formatting-only edits don't miss the cache.
func normalize(source string) string {
	lines := strings.Split(source, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Lookup returns the cached output for key, if present.
func (c *Cache) Lookup(key string) (output string, ok bool, err error) {
	row := c.db.QueryRow(c.rebind(`SELECT output FROM builds WHERE cache_key = ?`), key)
	err = row.Scan(&output)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: lookup: %w", err)
	}
	return output, true, nil
}

// Store records output under key, overwriting any prior entry — a cache
// key collision only happens when the same source+mode compiles to
// genuinely different output, which should never happen for a
// deterministic pipeline, but a rebuild always wins over a stale hit.
func (c *Cache) Store(key, output string) error {
	var q string
	switch c.driver {
	case "postgres":
		q = `INSERT INTO builds (cache_key, output, created_at) VALUES ($1, $2, $3)
			ON CONFLICT (cache_key) DO UPDATE SET output = $2, created_at = $3`
	case "mysql":
		q = `REPLACE INTO builds (cache_key, output, created_at) VALUES (?, ?, ?)`
	case "sqlserver":
		q = c.rebind(`MERGE builds AS t USING (SELECT ? AS cache_key, ? AS output, ? AS created_at) AS s
			ON t.cache_key = s.cache_key
			WHEN MATCHED THEN UPDATE SET output = s.output, created_at = s.created_at
			WHEN NOT MATCHED THEN INSERT (cache_key, output, created_at) VALUES (s.cache_key, s.output, s.created_at);`)
	default:
		q = `INSERT OR REPLACE INTO builds (cache_key, output, created_at) VALUES (?, ?, ?)`
	}
	_, err := c.db.Exec(q, key, output, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("cache: store: %w", err)
	}
	return nil
}

// rebind rewrites a `?`-placeholder query for drivers that expect
// positional `$N` parameters instead.
func (c *Cache) rebind(q string) string {
	if c.driver != "postgres" && c.driver != "sqlserver" {
		return q
	}
	var sb strings.Builder
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			if c.driver == "sqlserver" {
				fmt.Fprintf(&sb, "@p%d", n)
			} else {
				fmt.Fprintf(&sb, "$%d", n)
			}
			continue
		}
		sb.WriteByte(q[i])
	}
	return sb.String()
}
