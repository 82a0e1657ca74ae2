package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag := strings.TrimSpace(field.Tag.Get("db"))
		if tag == "" || tag == "-" {
			continue
		}
		col := strings.TrimSpace(strings.Split(tag, ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}

// ModelColumns lists the db-tagged columns of model in field order.
func ModelColumns(model any) ([]string, error) {
	cols, _, err := columnsAndValuesFromModel(model)
	return cols, err
}

// OnConflictUpdate renders an upsert suffix that overwrites every column in update
// with its EXCLUDED value, followed by any raw assignments in extra.
func OnConflictUpdate(conflict []string, update []string, extra ...string) string {
	var buf strings.Builder
	buf.WriteString("ON CONFLICT (")
	buf.WriteString(strings.Join(conflict, ", "))
	buf.WriteString(")")

	skip := make(map[string]struct{}, len(conflict))
	for _, col := range conflict {
		skip[col] = struct{}{}
	}
	sets := make([]string, 0, len(update)+len(extra))
	for _, col := range update {
		if _, ok := skip[col]; ok {
			continue
		}
		sets = append(sets, col+" = EXCLUDED."+col)
	}
	sets = append(sets, extra...)
	if len(sets) == 0 {
		buf.WriteString(" DO NOTHING")
		return buf.String()
	}

	buf.WriteString(" DO UPDATE SET ")
	buf.WriteString(strings.Join(sets, ", "))
	return buf.String()
}
