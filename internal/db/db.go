// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// package db records Quill's release history and the pinned host keys of
// sync targets. It abstracts the underlying database (SQLite, PostgreSQL
// or MySQL) behind a small Store interface; schema migrations are embedded
// and applied on open.
package db // import "github.com/scriptorium/quill/internal/db"

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/scriptorium/quill/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	// SQL drivers for the experimental server backends.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations
var embeddedMigrations embed.FS

// ErrNotInitialized is returned by package helpers before InitDB has run.
var ErrNotInitialized = errors.New("db: not initialized")

// Store is the persistence surface the rest of Quill sees.
type Store interface {
	LogRelease(action, slug, details string) error
	GetHistory(limit int) ([]model.ReleaseRecord, error)
	GetKnownHostKey(hostname string) (string, error)
	AddKnownHostKey(hostname, publicKey string) error
	GetAllKnownHosts() ([]model.KnownHost, error)
	Close() error
}

var store Store

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// InitDB opens the configured database, runs migrations, and installs the
// package-level store used by the helpers below.
func InitDB(dbType, dsn string) error {
	s, err := NewStoreFromDSN(dbType, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	store = s
	return nil
}

// IsInitialized reports whether the package-level store has been set.
func IsInitialized() bool {
	return store != nil
}

// NewStoreFromDSN opens a sql.DB for the given DSN, runs migrations, and
// returns a Store backed by a long-lived *bun.DB.
func NewStoreFromDSN(dbType, dsn string) (Store, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to it.
	if dbType == "postgres" {
		driverName = "pgx"
	}
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory SQLite keeps a separate database per connection; force a
	// single connection so the schema stays visible. Tests rely on this.
	if dbType == "sqlite" && strings.Contains(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	if err := RunMigrations(sqlDB, dbType); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &bunStore{bun: createBunDB(sqlDB, dbType)}, nil
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// RunMigrations applies the embedded .up.sql files for the given dialect in
// lexical order, tracking applied versions in schema_migrations.
func RunMigrations(sqlDB *sql.DB, dbType string) error {
	migrationsPath := fmt.Sprintf("migrations/%s", dbType)
	entries, err := fs.ReadDir(embeddedMigrations, migrationsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no migrations embedded for db type %q", dbType)
		}
		return fmt.Errorf("failed to read embedded migrations (%s): %w", migrationsPath, err)
	}

	var ups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	if _, err := sqlDB.Exec("CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(255) PRIMARY KEY)"); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	checkQuery := "SELECT 1 FROM schema_migrations WHERE version = ?"
	insertQuery := "INSERT INTO schema_migrations (version) VALUES (?)"
	if dbType == "postgres" {
		checkQuery = "SELECT 1 FROM schema_migrations WHERE version = $1"
		insertQuery = "INSERT INTO schema_migrations (version) VALUES ($1)"
	}

	for _, fname := range ups {
		version := strings.TrimSuffix(fname, ".up.sql")

		var exists int
		err := sqlDB.QueryRow(checkQuery, version).Scan(&exists)
		if err == nil {
			continue // already applied
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check migration %s: %w", version, err)
		}

		script, err := embeddedMigrations.ReadFile(migrationsPath + "/" + fname)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", fname, err)
		}
		// MySQL's driver rejects multi-statement Execs by default, so
		// run the statements one at a time.
		for _, stmt := range strings.Split(string(script), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := sqlDB.Exec(stmt); err != nil {
				return fmt.Errorf("migration %s failed: %w", version, err)
			}
		}
		if _, err := sqlDB.Exec(insertQuery, version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", version, err)
		}
		dbLogf("db: applied migration %s", version)
	}
	return nil
}

// timestamp is the canonical wall-clock format for the release log.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Package-level helpers delegating to the installed store. Writes to the
// release log are best-effort at call sites; reads are not.

func LogRelease(action, slug, details string) error {
	if store == nil {
		return ErrNotInitialized
	}
	return store.LogRelease(action, slug, details)
}

func GetHistory(limit int) ([]model.ReleaseRecord, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetHistory(limit)
}

func GetKnownHostKey(hostname string) (string, error) {
	if store == nil {
		return "", ErrNotInitialized
	}
	return store.GetKnownHostKey(hostname)
}

func AddKnownHostKey(hostname, publicKey string) error {
	if store == nil {
		return ErrNotInitialized
	}
	return store.AddKnownHostKey(hostname, publicKey)
}

func GetAllKnownHosts() ([]model.KnownHost, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetAllKnownHosts()
}
