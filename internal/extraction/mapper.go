package extraction

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
)

type EntityKind string

const (
	EntityPlayer EntityKind = "player"
	EntityTeam   EntityKind = "team"
)

// Entity identifies the subject of one intermediate record as the document names it.
type Entity struct {
	Kind           EntityKind
	ExternalID     string
	Name           string
	TeamExternalID string
	TeamName       string
	TeamIndex      int
	// Occurrence counts earlier rows of the same team that share this row's key.
	Occurrence int
}

// Key is a document-local identifier used before identity resolution.
func (e Entity) Key() string {
	subject := e.ExternalID
	if subject == "" {
		subject = e.Name
	}
	key := string(e.Kind) + ":" + e.TeamExternalID + ":" + subject
	if e.Occurrence > 0 {
		key += "#" + strconv.Itoa(e.Occurrence+1)
	}
	return key
}

// FieldValue is one canonical field as extracted, before validation.
type FieldValue struct {
	Field canonical.Field
	// Raw is the located cell text.
	Raw string
	// Value is Raw after the layout transform.
	Value string
	// InLayout is false when the format does not carry the field at all.
	InLayout bool
	// NotApplicable marks player-only fields on team rows.
	NotApplicable bool
	// Missing is set when the locator matched no cell.
	Missing bool
	// Err holds a transform failure; Value then equals Raw.
	Err error
}

// Intermediate is the ordered, layout-independent extraction of one entity row.
type Intermediate struct {
	Entity Entity
	Format Format
	Fields []FieldValue
}

func (i Intermediate) Get(field canonical.Field) (FieldValue, bool) {
	idx := canonical.PositionOf(field)
	if idx < 0 || idx >= len(i.Fields) {
		return FieldValue{}, false
	}
	return i.Fields[idx], true
}

// Mapper applies a layout's mapping table to a parsed document.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// rowIndex lists a table's rows per row key in document order.
type rowIndex map[string][]*goquery.Selection

func (idx rowIndex) row(key string, occurrence int) *goquery.Selection {
	rows := idx[key]
	if occurrence < 0 || occurrence >= len(rows) {
		return nil
	}
	return rows[occurrence]
}

const teamTotalsKey = "\x00team"

// Map extracts one intermediate record per player row and per team totals row,
// home team first, in document order.
func (m *Mapper) Map(doc *Document, layout Layout) []Intermediate {
	if doc == nil {
		return nil
	}

	var out []Intermediate
	for _, team := range doc.Teams {
		indexes := make(map[string]rowIndex)
		rows := func(kind string) rowIndex {
			if idx, ok := indexes[kind]; ok {
				return idx
			}
			idx := indexTable(doc.Table(team.ExternalID, kind))
			indexes[kind] = idx
			return idx
		}

		seen := make(map[string]int)
		summaryRows := doc.Table(team.ExternalID, summaryTable).Find("tbody tr")
		summaryRows.Each(func(_ int, row *goquery.Selection) {
			if skipRow(row) {
				return
			}
			cell := row.Find(`[data-stat="player"]`).First()
			if cell.Length() == 0 {
				return
			}
			entity := Entity{
				Kind:           EntityPlayer,
				ExternalID:     playerExternalID(cell),
				Name:           strings.TrimSpace(cell.Text()),
				TeamExternalID: team.ExternalID,
				TeamName:       team.Name,
				TeamIndex:      team.Index,
			}
			key := rowKey(entity.ExternalID, entity.Name)
			entity.Occurrence = seen[key]
			seen[key]++
			out = append(out, m.extract(entity, key, layout, rows))
		})

		if _, ok := rows(summaryTable)[teamTotalsKey]; ok {
			entity := Entity{
				Kind:           EntityTeam,
				ExternalID:     team.ExternalID,
				Name:           team.Name,
				TeamExternalID: team.ExternalID,
				TeamName:       team.Name,
				TeamIndex:      team.Index,
			}
			out = append(out, m.extract(entity, teamTotalsKey, layout, rows))
		}
	}

	return out
}

func (m *Mapper) extract(entity Entity, key string, layout Layout, rows func(kind string) rowIndex) Intermediate {
	specs := canonical.Fields()
	out := Intermediate{
		Entity: entity,
		Format: layout.Format,
		Fields: make([]FieldValue, len(specs)),
	}

	for i, spec := range specs {
		value := FieldValue{Field: spec.Name}
		mapping, ok := layout.Mapping(spec.Name)
		switch {
		case !ok:
			value.Missing = true
		case entity.Kind == EntityTeam && spec.PlayerOnly:
			value.InLayout = true
			value.NotApplicable = true
		default:
			value.InLayout = true
			locate(&value, rows(mapping.Locator.Table).row(key, entity.Occurrence), mapping)
		}
		out.Fields[i] = value
	}

	return out
}

func locate(value *FieldValue, row *goquery.Selection, mapping FieldMapping) {
	if row == nil {
		value.Missing = true
		return
	}
	cell := row.Find(`[data-stat="` + mapping.Locator.Stat + `"]`).First()
	if cell.Length() == 0 {
		value.Missing = true
		return
	}

	value.Raw = strings.TrimSpace(cell.Text())
	value.Value = value.Raw
	if value.Raw == "" {
		return
	}
	transformed, err := mapping.Transform.Apply(value.Raw)
	if err != nil {
		value.Err = err
		return
	}
	value.Value = transformed
}

func indexTable(table *goquery.Selection) rowIndex {
	out := make(rowIndex)
	if table.Length() == 0 {
		return out
	}
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if skipRow(row) {
			return
		}
		cell := row.Find(`[data-stat="player"]`).First()
		if cell.Length() == 0 {
			return
		}
		key := rowKey(playerExternalID(cell), strings.TrimSpace(cell.Text()))
		out[key] = append(out[key], row)
	})
	if totals := table.Find("tfoot tr").First(); totals.Length() > 0 {
		out[teamTotalsKey] = []*goquery.Selection{totals}
	}
	return out
}

func rowKey(externalID, name string) string {
	if externalID != "" {
		return "id:" + externalID
	}
	return "name:" + strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func skipRow(row *goquery.Selection) bool {
	class := row.AttrOr("class", "")
	return strings.Contains(class, "thead") || strings.Contains(class, "spacer") || strings.Contains(class, "over_header")
}
