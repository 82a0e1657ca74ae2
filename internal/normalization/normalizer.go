package normalization

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
	"github.com/riskibarqy/nwsl-stats/internal/extraction"
)

// ErrUnidentifiable marks a row that names no entity at all.
var ErrUnidentifiable = errors.New("record entity cannot be identified")

type Reason string

const (
	ReasonAbsentByFormat   Reason = "absent_by_format"
	ReasonMissingInSource  Reason = "missing_in_source"
	ReasonNotReported      Reason = "not_reported"
	ReasonTransformFailed  Reason = "transform_failed"
	ReasonCoercionFailed   Reason = "coercion_failed"
	ReasonOutOfRange       Reason = "out_of_range"
	ReasonUnknownCategory  Reason = "unknown_category"
	ReasonDuplicateRow     Reason = "duplicate_row"
	ReasonEntityAmbiguous  Reason = "entity_ambiguous"
	ReasonEntityUnresolved Reason = "entity_unresolved"
)

// Warning is a non-fatal field coercion problem. The field it names is stored as null.
type Warning struct {
	MatchID   string          `json:"match_id,omitempty"`
	EntityKey string          `json:"entity_key"`
	EntityID  string          `json:"entity_id,omitempty"`
	Field     canonical.Field `json:"field,omitempty"`
	Raw       string          `json:"raw,omitempty"`
	Reason    Reason          `json:"reason"`
	Detail    string          `json:"detail,omitempty"`
}

type Result struct {
	Entity   extraction.Entity
	Record   canonical.Record
	Warnings []Warning
}

type Option func(*Normalizer)

// WithAbsentByFormatWarnings controls whether fields the layout never carries are reported.
func WithAbsentByFormatWarnings(enabled bool) Option {
	return func(n *Normalizer) {
		n.reportAbsent = enabled
	}
}

// Normalizer coerces intermediate records into the canonical schema.
type Normalizer struct {
	reportAbsent bool
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{reportAbsent: true}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var countryCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Normalize never rejects a record for a bad field: the field becomes null and a
// warning is returned. Only a row naming no entity fails.
func (n *Normalizer) Normalize(in extraction.Intermediate) (Result, error) {
	entity := in.Entity
	entity.Name = strings.Join(strings.Fields(entity.Name), " ")
	entity.ExternalID = strings.TrimSpace(entity.ExternalID)
	if entity.Name == "" && entity.ExternalID == "" {
		return Result{}, fmt.Errorf("%w: kind=%s team=%s", ErrUnidentifiable, entity.Kind, entity.TeamExternalID)
	}

	out := Result{
		Entity: entity,
		Record: canonical.NewRecord(),
	}
	key := entity.Key()
	warn := func(field canonical.Field, raw string, reason Reason, detail string) {
		out.Warnings = append(out.Warnings, Warning{
			EntityKey: key,
			Field:     field,
			Raw:       raw,
			Reason:    reason,
			Detail:    detail,
		})
	}

	for _, spec := range canonical.Fields() {
		fv, ok := in.Get(spec.Name)
		if !ok {
			if n.reportAbsent {
				warn(spec.Name, "", ReasonAbsentByFormat, "")
			}
			continue
		}

		switch {
		case fv.NotApplicable:
			continue
		case !fv.InLayout:
			if n.reportAbsent {
				warn(spec.Name, "", ReasonAbsentByFormat, string(in.Format))
			}
			continue
		case fv.Missing:
			warn(spec.Name, "", ReasonMissingInSource, "")
			continue
		case strings.TrimSpace(fv.Raw) == "":
			warn(spec.Name, "", ReasonNotReported, "")
			continue
		case fv.Err != nil:
			warn(spec.Name, fv.Raw, ReasonTransformFailed, fv.Err.Error())
			continue
		}

		value, reason, detail := coerce(spec, fv.Value)
		if reason != "" {
			warn(spec.Name, fv.Raw, reason, detail)
			continue
		}
		out.Record.Set(spec.Name, value)
	}

	return out, nil
}

func coerce(spec canonical.FieldSpec, raw string) (canonical.Value, Reason, string) {
	value := strings.TrimSpace(raw)

	switch spec.Kind {
	case canonical.KindText:
		return canonical.TextValue(strings.Join(strings.Fields(value), " ")), "", ""
	case canonical.KindCountry:
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return canonical.Value{}, ReasonUnknownCategory, "empty country"
		}
		code := strings.ToUpper(fields[len(fields)-1])
		if !countryCodeRegex.MatchString(code) {
			return canonical.Value{}, ReasonUnknownCategory, "expected a 3-letter country code"
		}
		return canonical.TextValue(code), "", ""
	case canonical.KindCategory:
		return coerceCategory(spec, value)
	case canonical.KindInt, canonical.KindCount:
		n, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
		if err != nil {
			return canonical.Value{}, ReasonCoercionFailed, err.Error()
		}
		if reason, detail := checkRange(spec, float64(n)); reason != "" {
			return canonical.Value{}, reason, detail
		}
		return canonical.IntValue(n), "", ""
	case canonical.KindFloat, canonical.KindFraction:
		f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
		if err != nil {
			return canonical.Value{}, ReasonCoercionFailed, err.Error()
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return canonical.Value{}, ReasonCoercionFailed, "not a finite number"
		}
		if reason, detail := checkRange(spec, f); reason != "" {
			return canonical.Value{}, reason, detail
		}
		return canonical.FloatValue(f), "", ""
	default:
		return canonical.Value{}, ReasonCoercionFailed, fmt.Sprintf("unsupported kind %s", spec.Kind)
	}
}

func coerceCategory(spec canonical.FieldSpec, value string) (canonical.Value, Reason, string) {
	allowed := make(map[string]struct{}, len(spec.Categories))
	for _, c := range spec.Categories {
		allowed[c] = struct{}{}
	}

	parts := strings.Split(value, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToUpper(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		if _, ok := allowed[token]; !ok {
			return canonical.Value{}, ReasonUnknownCategory, fmt.Sprintf("unknown token %q", token)
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return canonical.Value{}, ReasonUnknownCategory, "no category tokens"
	}
	return canonical.TextValue(strings.Join(tokens, ",")), "", ""
}

func checkRange(spec canonical.FieldSpec, v float64) (Reason, string) {
	if v < spec.Min {
		return ReasonOutOfRange, fmt.Sprintf("below minimum %v", spec.Min)
	}
	if spec.HasMax() && v > spec.Max {
		return ReasonOutOfRange, fmt.Sprintf("above maximum %v", spec.Max)
	}
	return "", ""
}
