package store

import "strings"

// Filter accumulates WHERE predicates. Column names must come from code, never from input.
type Filter struct {
	clauses []string
	args    []any
}

func NewFilter() *Filter {
	return &Filter{}
}

func (f *Filter) Eq(column string, value any) *Filter {
	f.clauses = append(f.clauses, column+" = ?")
	f.args = append(f.args, value)
	return f
}

// EqIf adds an equality predicate only when ok is true.
func (f *Filter) EqIf(ok bool, column string, value any) *Filter {
	if !ok {
		return f
	}
	return f.Eq(column, value)
}

func (f *Filter) NotEq(column string, value any) *Filter {
	f.clauses = append(f.clauses, column+" <> ?")
	f.args = append(f.args, value)
	return f
}

// Search matches term case-insensitively against any of the columns. Empty term is a no-op.
func (f *Filter) Search(term string, columns ...string) *Filter {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return f
	}

	pattern := "%" + strings.ToLower(term) + "%"
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, "LOWER("+c+") LIKE ?")
		f.args = append(f.args, pattern)
	}
	f.clauses = append(f.clauses, "("+strings.Join(parts, " OR ")+")")
	return f
}

// Range keeps rows with from <= column <= to.
func (f *Filter) Range(column string, from, to any) *Filter {
	f.clauses = append(f.clauses, column+" >= ? AND "+column+" <= ?")
	f.args = append(f.args, from, to)
	return f
}

func (f *Filter) Where(clause string, args ...any) *Filter {
	f.clauses = append(f.clauses, clause)
	f.args = append(f.args, args...)
	return f
}

func (f *Filter) build() (string, []any) {
	if f == nil || len(f.clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(f.clauses, " AND "), f.args
}
