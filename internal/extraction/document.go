package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrDocumentUnparseable = errors.New("document unparseable")
	ErrFormatMismatch      = errors.New("format mismatch")
)

var (
	squadHrefRegex  = regexp.MustCompile(`/squads/([a-f0-9]+)/`)
	playerHrefRegex = regexp.MustCompile(`/players/([a-f0-9]+)/`)
)

const (
	statsTablePrefix = "stats_"
	summaryTable     = "summary"
)

// TeamSide is one of the two teams reported in a match document, home first.
type TeamSide struct {
	Index      int
	ExternalID string
	Name       string
}

// Document is a parsed match report.
type Document struct {
	doc       *goquery.Document
	Teams     []TeamSide
	MatchDate *time.Time
}

// ParseDocument parses a match report. Tables the source wraps in HTML comments
// are unwrapped first.
func ParseDocument(raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDocumentUnparseable)
	}

	clean := strings.ReplaceAll(string(raw), "<!--", "")
	clean = strings.ReplaceAll(clean, "-->", "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnparseable, err)
	}

	out := &Document{doc: doc}
	squadNames := scoreboxSquadNames(doc)

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		id := strings.TrimSpace(table.AttrOr("id", ""))
		teamID, kind, ok := splitStatsTableID(id)
		if !ok || kind != summaryTable {
			return
		}
		for _, existing := range out.Teams {
			if existing.ExternalID == teamID {
				return
			}
		}
		name := squadNames[teamID]
		if name == "" {
			name = captionTeamName(table)
		}
		out.Teams = append(out.Teams, TeamSide{
			Index:      len(out.Teams),
			ExternalID: teamID,
			Name:       name,
		})
	})

	if len(out.Teams) != 2 {
		return nil, fmt.Errorf("%w: expected 2 team summary tables, found %d", ErrDocumentUnparseable, len(out.Teams))
	}

	if venueDate, ok := doc.Find(".scorebox_meta [data-venue-date]").First().Attr("data-venue-date"); ok {
		if parsed, err := time.Parse("2006-01-02", strings.TrimSpace(venueDate)); err == nil {
			out.MatchDate = &parsed
		}
	}

	return out, nil
}

// Table returns the stats table of the given kind for a team, or an empty selection.
func (d *Document) Table(teamID, kind string) *goquery.Selection {
	return d.doc.Find(`table[id="` + statsTablePrefix + teamID + "_" + kind + `"]`).First()
}

// HasStat reports whether any team's table of the given kind carries a cell for stat.
func (d *Document) HasStat(loc Locator) bool {
	for _, team := range d.Teams {
		if d.Table(team.ExternalID, loc.Table).Find(`[data-stat="` + loc.Stat + `"]`).Length() > 0 {
			return true
		}
	}
	return false
}

func splitStatsTableID(id string) (string, string, bool) {
	if !strings.HasPrefix(id, statsTablePrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(id, statsTablePrefix)
	sep := strings.Index(rest, "_")
	if sep <= 0 || sep == len(rest)-1 {
		return "", "", false
	}
	return rest[:sep], rest[sep+1:], true
}

func scoreboxSquadNames(doc *goquery.Document) map[string]string {
	out := make(map[string]string)
	doc.Find(".scorebox strong a[href]").Each(func(_ int, a *goquery.Selection) {
		match := squadHrefRegex.FindStringSubmatch(a.AttrOr("href", ""))
		if len(match) != 2 {
			return
		}
		name := strings.TrimSpace(a.Text())
		if name != "" {
			out[match[1]] = name
		}
	})
	return out
}

func captionTeamName(table *goquery.Selection) string {
	caption := strings.TrimSpace(table.Find("caption").First().Text())
	caption = strings.TrimSuffix(caption, "Player Stats Table")
	caption = strings.TrimSuffix(caption, " Table")
	return strings.TrimSpace(caption)
}

func playerExternalID(cell *goquery.Selection) string {
	if id := strings.TrimSpace(cell.AttrOr("data-append-csv", "")); id != "" {
		return id
	}
	href := cell.Find("a[href]").First().AttrOr("href", "")
	if match := playerHrefRegex.FindStringSubmatch(href); len(match) == 2 {
		return match[1]
	}
	return ""
}
