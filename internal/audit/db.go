// Package audit is the optional, off-by-default SQLite-backed event
// history (component N): a single migrated table of resolved events,
// written to asynchronously off a buffered channel so a slow disk never
// delays the UDP send path.
package audit

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the migrated SQLite connection backing the audit store.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the SQLite database at path in WAL mode and runs
// the audit schema migration.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("audit: migration source: %w", err)
	}
	dbDriver, err := sqlite.WithInstance(db.conn, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("audit: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("audit: new migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("audit: run migrations: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Insert appends one audit row.
func (db *DB) Insert(e Entry) error {
	_, err := db.conn.Exec(
		`INSERT INTO audit_entries (occurred_at, req_name, req_qtype, status_kind, rcode) VALUES (?, ?, ?, ?, ?)`,
		e.OccurredAt.Format(time.RFC3339Nano), e.ReqName, e.ReqQType, e.StatusKind, e.RCode,
	)
	if err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}

// Recent returns the most recent n entries, newest first.
func (db *DB) Recent(n int) ([]Entry, error) {
	rows, err := db.conn.Query(
		`SELECT occurred_at, req_name, req_qtype, status_kind, rcode FROM audit_entries ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("audit: query recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var occurred string
		if err := rows.Scan(&occurred, &e.ReqName, &e.ReqQType, &e.StatusKind, &e.RCode); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		e.OccurredAt, _ = time.Parse(time.RFC3339Nano, occurred)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Entry is one persisted resolved-event record.
type Entry struct {
	OccurredAt time.Time
	ReqName    string
	ReqQType   string
	StatusKind string
	RCode      string
}
