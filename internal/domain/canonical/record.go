package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Value is a nullable canonical cell. The zero Value is null.
type Value struct {
	Int   int64
	Float float64
	Text  string
	Valid bool
}

func IntValue(v int64) Value {
	return Value{Int: v, Valid: true}
}

func FloatValue(v float64) Value {
	return Value{Float: v, Valid: true}
}

func TextValue(v string) Value {
	return Value{Text: v, Valid: true}
}

func (v Value) IsNull() bool {
	return !v.Valid
}

// Format renders the value for the given kind; null renders as "".
func (v Value) Format(kind Kind) string {
	if !v.Valid {
		return ""
	}
	switch {
	case kind.Integral():
		return strconv.FormatInt(v.Int, 10)
	case kind.Numeric():
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return v.Text
	}
}

// SQL returns the driver value for the given kind: nil, int64, float64 or string.
func (v Value) SQL(kind Kind) any {
	if !v.Valid {
		return nil
	}
	switch {
	case kind.Integral():
		return v.Int
	case kind.Numeric():
		return v.Float
	default:
		return v.Text
	}
}

// Record holds every canonical field in schema order. Fields never set stay null.
type Record struct {
	values [FieldCount]Value
}

func NewRecord() Record {
	return Record{}
}

func (r Record) Get(name Field) Value {
	idx := PositionOf(name)
	if idx < 0 {
		return Value{}
	}
	return r.values[idx]
}

func (r *Record) Set(name Field, v Value) bool {
	idx := PositionOf(name)
	if idx < 0 {
		return false
	}
	r.values[idx] = v
	return true
}

// Each visits the fields in schema order.
func (r Record) Each(fn func(spec FieldSpec, v Value)) {
	for i, spec := range schema {
		fn(spec, r.values[i])
	}
}

// PopulatedCount is the number of non-null fields.
func (r Record) PopulatedCount() int {
	count := 0
	for _, v := range r.values {
		if v.Valid {
			count++
		}
	}
	return count
}

// Hash is a stable digest of the record's content; null and zero hash differently.
func (r Record) Hash() string {
	var b strings.Builder
	for i, spec := range schema {
		b.WriteString(string(spec.Name))
		if !r.values[i].Valid {
			b.WriteString("=\x00;")
			continue
		}
		b.WriteByte('=')
		b.WriteString(r.values[i].Format(spec.Kind))
		b.WriteByte(';')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Diff returns the fields whose values differ between r and other.
func (r Record) Diff(other Record) []Field {
	var out []Field
	for i, spec := range schema {
		if r.values[i] != other.values[i] {
			out = append(out, spec.Name)
		}
	}
	return out
}
