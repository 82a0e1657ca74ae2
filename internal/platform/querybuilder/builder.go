package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// writer accumulates SQL text and its positional arguments.
type writer struct {
	sb   strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sb.WriteString("$" + strconv.Itoa(len(w.args)))
}

// expr writes a fragment, binding each '?' to the next value. Surplus '?'
// are kept literally.
func (w *writer) expr(fragment string, values []any) {
	next := 0
	for _, r := range fragment {
		if r == '?' && next < len(values) {
			w.bind(values[next])
			next++
			continue
		}
		w.sb.WriteRune(r)
	}
}

func (w *writer) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.sb.WriteString(" WHERE ")
		} else {
			w.sb.WriteString(" AND ")
		}
		c.write(w)
	}
}

type Condition interface {
	write(w *writer)
}

type conditionFunc func(w *writer)

func (f conditionFunc) write(w *writer) { f(w) }

func Eq(column string, value any) Condition {
	return conditionFunc(func(w *writer) {
		w.sb.WriteString(column + " = ")
		w.bind(value)
	})
}

// InStrings matches column against a set of keys. An empty set matches nothing.
func InStrings(column string, values []string) Condition {
	return conditionFunc(func(w *writer) {
		if len(values) == 0 {
			w.sb.WriteString("1=0")
			return
		}
		w.sb.WriteString(column + " IN (")
		for i, v := range values {
			if i > 0 {
				w.sb.WriteString(", ")
			}
			w.bind(v)
		}
		w.sb.WriteString(")")
	})
}

// Expr is a raw predicate with '?' placeholders.
func Expr(expr string, args ...any) Condition {
	return conditionFunc(func(w *writer) {
		w.expr(expr, args)
	})
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("select columns are required")
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("select table is required")
	}

	var w writer
	w.sb.WriteString("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	w.where(b.where)
	if len(b.groupBy) > 0 {
		w.sb.WriteString(" GROUP BY " + strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		w.sb.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.sb.WriteString(" LIMIT " + strconv.Itoa(b.limit))
	}
	return w.sb.String(), w.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values appends one row; call it once per row for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, typically an ON CONFLICT clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	var w writer
	w.sb.WriteString("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			w.sb.WriteString(", ")
		}
		w.sb.WriteString("(")
		for j, v := range row {
			if j > 0 {
				w.sb.WriteString(", ")
			}
			w.bind(v)
		}
		w.sb.WriteString(")")
	}
	if b.suffix != "" {
		w.sb.WriteString(" " + b.suffix)
	}
	return w.sb.String(), w.args, nil
}
