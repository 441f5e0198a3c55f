package app

import (
	"strings"

	"github.com/shrimpsizemoose/semla/internal/store"
	"github.com/shrimpsizemoose/semla/internal/store/postgres"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
	"github.com/shrimpsizemoose/semla/migrations"
)

// NewStore opens postgres for postgres:// DSNs and sqlite for anything else, then migrates.
func NewStore(dsn string) (*store.BaseStore, error) {
	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}

	switch dbType {
	case store.DBTypePostgres:
		s, err := postgres.NewPostgresStore(dsn, migrations.FS)
		if err != nil {
			return nil, err
		}
		return &s.BaseStore, nil
	default:
		s, err := sqlite.NewSQLiteStore(dsn, migrations.FS)
		if err != nil {
			return nil, err
		}
		return &s.BaseStore, nil
	}
}
