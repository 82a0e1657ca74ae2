package season

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DefaultLeague = "nwsl"

// Season is one league year. It is immutable once created.
type Season struct {
	ID                 string
	Year               int
	League             string
	ExpectedMatchCount int
	CreatedAt          time.Time
}

// ID builds the stable season identifier, e.g. "nwsl-2016".
func ID(league string, year int) string {
	return NormalizeLeague(league) + "-" + strconv.Itoa(year)
}

func NormalizeLeague(league string) string {
	league = strings.ToLower(strings.TrimSpace(league))
	if league == "" {
		return DefaultLeague
	}
	return league
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.Year < 1900 || s.Year > 2100 {
		return fmt.Errorf("season year %d is out of range", s.Year)
	}
	if s.League == "" {
		return fmt.Errorf("season league is required")
	}
	if s.ExpectedMatchCount < 0 {
		return fmt.Errorf("season expected match count must be >= 0")
	}
	if s.ID != ID(s.League, s.Year) {
		return fmt.Errorf("season id %q does not match league %q and year %d", s.ID, s.League, s.Year)
	}

	return nil
}
