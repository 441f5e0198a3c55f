// internal/store/sqlite/store.go
package sqlite

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/shrimpsizemoose/semla/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn string, migrations fs.FS) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	// every pooled connection to ":memory:" would be a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.NewBaseStore(
		db,
		func(query string) string {
			return query
		},
		classify,
	)}

	if err := s.ApplyMigrations(migrations, translateToSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

// Applied in order: BIGSERIAL must be rewritten before BIGINT.
var replacements = []struct {
	from string
	to   string
}{
	{"BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
	{"BIGINT", "INTEGER"},
	{"TIMESTAMPTZ", "DATETIME"},
	{"DOUBLE PRECISION", "REAL"},
	{"now()", "CURRENT_TIMESTAMP"},
}

// translateToSQLite converts Postgres SQL to SQLite dialect
func translateToSQLite(sql string) string {
	result := sql
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.from, r.to)
	}
	return result
}

func classify(err error) store.Violation {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return store.Violation{}
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		msg := sqliteErr.Error()
		if i := strings.Index(msg, "failed: "); i >= 0 {
			msg = msg[i+len("failed: "):]
		}
		return store.Violation{Kind: store.UniqueViolation, Constraint: msg}
	case sqlite3.ErrConstraintForeignKey:
		return store.Violation{Kind: store.ForeignKeyViolation}
	}
	return store.Violation{}
}
