package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shrimpsizemoose/semla/internal/store"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	// Conditional inserts do not see each other under READ COMMITTED.
	slotLock = "SELECT pg_advisory_xact_lock(hashtext(?))"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn string, migrations fs.FS) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.NewBaseStore(
		db,
		func(query string) string {
			return sqlx.Rebind(sqlx.DOLLAR, query)
		},
		classify,
	)}
	s.SlotLock = slotLock

	if err := s.ApplyMigrations(migrations, nil); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func classify(err error) store.Violation {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return store.Violation{}
	}

	switch pqErr.Code {
	case uniqueViolation:
		return store.Violation{Kind: store.UniqueViolation, Constraint: pqErr.Constraint}
	case foreignKeyViolation:
		return store.Violation{Kind: store.ForeignKeyViolation, Constraint: pqErr.Constraint}
	}
	return store.Violation{}
}
