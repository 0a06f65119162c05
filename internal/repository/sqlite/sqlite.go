// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
//
// Every write that can violate a unique constraint fails atomically inside
// SQLite and is surfaced as an apperror.Duplicate naming the colliding field.
// There is no check-then-insert anywhere in this package.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/anakena/club-server/internal/apperror"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. Per-resource repositories (Users(),
// Teams(), ...) share this pool; the pool itself is safe for concurrent use,
// so request handlers never coordinate beyond it.
type DB struct {
	conn *sql.DB
}

// New creates a SQLite connection pool at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A single connection serializes writers (SQLite allows only one
	// anyway, extra connections would just trade SQLITE_BUSY errors for
	// queueing) and keeps ":memory:" databases working — every new pool
	// connection to ":memory:" would otherwise get its own empty DB.
	conn.SetMaxOpenConns(1)

	// Ping forces an immediate connection so a bad path or permissions issue
	// surfaces here rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is happening — important
	// for a web server where multiple requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Per-resource repository accessors. Each is a thin view over the shared
// pool — cheap to call, no state of its own.

func (db *DB) Users() *UserDB             { return &UserDB{conn: db.conn} }
func (db *DB) Teams() *TeamDB             { return &TeamDB{conn: db.conn} }
func (db *DB) Players() *PlayerDB         { return &PlayerDB{conn: db.conn} }
func (db *DB) Matches() *MatchDB          { return &MatchDB{conn: db.conn} }
func (db *DB) News() *NewsDB              { return &NewsDB{conn: db.conn} }
func (db *DB) Tournaments() *TournamentDB { return &TournamentDB{conn: db.conn} }
func (db *DB) Events() *EventDB           { return &EventDB{conn: db.conn} }
func (db *DB) Store() *StoreDB            { return &StoreDB{conn: db.conn} }

// insertID is the value bound for an INTEGER PRIMARY KEY column on insert:
// NULL when the caller did not choose an id, so SQLite assigns the next one.
func insertID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS is idempotent, so
// this is safe to run on every startup. Nested values the frontend treats as
// opaque (achievements, nextMatch, result) are stored as JSON text columns.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin      INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS teams (
			id            INTEGER PRIMARY KEY,
			sport         TEXT NOT NULL,
			name          TEXT NOT NULL,
			category      TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			founded       TEXT NOT NULL DEFAULT '',
			captain       TEXT NOT NULL DEFAULT '',
			players_count INTEGER NOT NULL DEFAULT 0,
			achievements  TEXT NOT NULL DEFAULT '[]',
			next_match    TEXT,
			image         TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS players (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			team_id    INTEGER NOT NULL,
			position   TEXT NOT NULL DEFAULT '',
			number     INTEGER NOT NULL DEFAULT 0,
			age        INTEGER NOT NULL DEFAULT 0,
			carrera    TEXT NOT NULL DEFAULT '',
			is_captain INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_players_team_id ON players(team_id);

		CREATE TABLE IF NOT EXISTS matches (
			id         INTEGER PRIMARY KEY,
			team_id    INTEGER NOT NULL,
			opponent   TEXT NOT NULL,
			date       TEXT NOT NULL DEFAULT '',
			time       TEXT NOT NULL DEFAULT '',
			location   TEXT NOT NULL DEFAULT '',
			type       TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'scheduled',
			result     TEXT,
			tournament TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_matches_team_id ON matches(team_id);

		CREATE TABLE IF NOT EXISTS news (
			id       INTEGER PRIMARY KEY,
			title    TEXT NOT NULL,
			summary  TEXT NOT NULL DEFAULT '',
			content  TEXT NOT NULL DEFAULT '',
			date     TEXT NOT NULL DEFAULT '',
			author   TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			image    TEXT NOT NULL DEFAULT '',
			team_id  INTEGER NOT NULL DEFAULT 0,
			featured INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS tournaments (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			sport      TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL DEFAULT '',
			end_date   TEXT NOT NULL DEFAULT '',
			teams      INTEGER NOT NULL DEFAULT 0,
			status     TEXT NOT NULL DEFAULT 'upcoming'
		);

		CREATE TABLE IF NOT EXISTS events (
			id          INTEGER PRIMARY KEY,
			start       TEXT NOT NULL,
			end         TEXT NOT NULL DEFAULT '',
			title       TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			location    TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS store_items (
			id       INTEGER PRIMARY KEY,
			label    TEXT NOT NULL,
			price    REAL NOT NULL DEFAULT 0,
			image    TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

// duplicateError translates a SQLite unique-constraint failure into an
// apperror.Duplicate naming the colliding column, or returns err unchanged
// when it is anything else. The driver reports violations as
// "UNIQUE constraint failed: <table>.<column>".
func duplicateError(err error, table string, messages map[string]string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	for column, message := range messages {
		if strings.Contains(msg, table+"."+column) {
			return apperror.Duplicate(column, message)
		}
	}
	return apperror.Duplicate("", "record already exists")
}
