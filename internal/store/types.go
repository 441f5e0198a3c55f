package store

import (
	"strings"

	"github.com/shrimpsizemoose/semla/internal/apperr"
)

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// Fields maps column names to values for inserts and partial updates.
type Fields = map[string]any

type ViolationKind int

const (
	NoViolation ViolationKind = iota
	UniqueViolation
	ForeignKeyViolation
)

// Violation is a driver error reduced to what the store needs to map it.
// Constraint is the index name on postgres and the "table.column, ..." list on sqlite.
type Violation struct {
	Kind       ViolationKind
	Constraint string
}

// UniqueKey describes a unique index and the error reported when it is hit.
type UniqueKey struct {
	Name    string
	Columns []string
	Kind    apperr.Kind
	Message string
}

func (k UniqueKey) matches(table string, constraint string) bool {
	if constraint == k.Name {
		return true
	}
	if strings.Contains(constraint, "'"+k.Name+"'") {
		return true
	}

	parts := strings.Split(constraint, ",")
	if len(parts) != len(k.Columns) {
		return false
	}
	for i, part := range parts {
		if strings.TrimSpace(part) != table+"."+k.Columns[i] {
			return false
		}
	}
	return true
}

// Table describes a table for the generic repository.
type Table struct {
	Name     string
	Columns  []string
	Sortable []string
	Unique   []UniqueKey
	// Label is used in NOT_FOUND messages.
	Label string
}

func (t Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (t Table) sortable(name string) bool {
	for _, c := range t.Sortable {
		if c == name {
			return true
		}
	}
	return false
}
