package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DBStore is the database-backed store. Driver "sqlite" takes a data
// directory (the file history.db is created inside, WAL mode enabled);
// driver "postgres" takes a lib/pq connection string.
type DBStore struct {
	db     *sql.DB
	driver string
}

// Open opens the store for the given driver and runs pending migrations.
// Caller must Close when done.
func Open(driver, dsn string) (*DBStore, error) {
	switch driver {
	case "sqlite":
		if dsn == "" {
			return nil, fmt.Errorf("history store: data dir is required")
		}
		if err := os.MkdirAll(dsn, 0700); err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		dbPath := filepath.Join(dsn, "history.db")
		db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
		if err != nil {
			return nil, fmt.Errorf("history store: open db: %w", err)
		}
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history store: WAL: %w", err)
		}
		return migrate(db, driver)
	case "postgres":
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("history store: open db: %w", err)
		}
		return migrate(db, driver)
	default:
		return nil, fmt.Errorf("history store: unknown driver %q", driver)
	}
}

func migrate(db *sql.DB, driver string) (*DBStore, error) {
	s := &DBStore{db: db, driver: driver}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// rebind rewrites ? placeholders to $1..$n for postgres; sqlite takes them
// as-is.
func (s *DBStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (s *DBStore) Close() error {
	return s.db.Close()
}

func (s *DBStore) Add(ctx context.Context, input string, success bool, message string) (*Record, error) {
	rec := Record{
		ID:      "inv_" + uuid.New().String(),
		Input:   input,
		Success: success,
		Message: message,
		At:      time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO invocations (id, input, success, message, at) VALUES (?, ?, ?, ?, ?)`),
		rec.ID, rec.Input, rec.Success, rec.Message, rec.At.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("history add: %w", err)
	}
	return &rec, nil
}

func (s *DBStore) Recent(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, input, success, message, at FROM invocations ORDER BY at DESC LIMIT ?`), n)
	if err != nil {
		return nil, fmt.Errorf("history recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var rec Record
		var at string
		if err := rows.Scan(&rec.ID, &rec.Input, &rec.Success, &rec.Message, &at); err != nil {
			return nil, fmt.Errorf("history recent: scan: %w", err)
		}
		rec.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *DBStore) runMigrations() error {
	// Ensure schema_version exists (idempotent).
	if _, err := s.db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL PRIMARY KEY)"); err != nil {
		return fmt.Errorf("migrations: create schema_version: %w", err)
	}
	current, err := s.currentVersion()
	if err != nil {
		return err
	}
	names, err := migrationNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		n, err := migrationNumber(name)
		if err != nil || n <= 0 || n <= current {
			continue
		}
		body, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("migration %s: begin: %w", name, err)
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if _, err := tx.Exec(s.rebind("INSERT INTO schema_version (version) VALUES (?)"), n); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %s: record version: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %s: commit: %w", name, err)
		}
	}
	return nil
}

func (s *DBStore) currentVersion() (int, error) {
	var v sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("migrations: current version: %w", err)
	}
	if !v.Valid {
		return 0, nil
	}
	return int(v.Int64), nil
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func migrationNumber(name string) (int, error) {
	head, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s: no number prefix", name)
	}
	return strconv.Atoi(head)
}
