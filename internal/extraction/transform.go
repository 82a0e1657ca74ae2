package extraction

import (
	"fmt"
	"strconv"
	"strings"
)

// Transform turns a located cell's text into a pre-validation value.
type Transform struct {
	Name  string
	Apply func(raw string) (string, error)
}

var (
	Identity = Transform{
		Name:  "identity",
		Apply: func(raw string) (string, error) { return raw, nil },
	}
	Percentage = Transform{
		Name:  "percentage",
		Apply: parsePercentage,
	}
	Duration = Transform{
		Name:  "duration",
		Apply: parseDurationMinutes,
	}
	AgeYearsDays = Transform{
		Name:  "age_yy_ddd",
		Apply: parseAgeYears,
	}
)

// parsePercentage turns "83.5" or "83.5%" into the fraction "0.835".
func parsePercentage(raw string) (string, error) {
	value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return raw, fmt.Errorf("parse percentage %q: %w", raw, err)
	}
	// shift the exponent instead of dividing so "83.7" becomes exactly 0.837
	fraction, err := strconv.ParseFloat(value+"e-2", 64)
	if err != nil {
		return raw, fmt.Errorf("parse percentage %q: %w", raw, err)
	}
	return strconv.FormatFloat(fraction, 'f', -1, 64), nil
}

// parseDurationMinutes turns "87:30" into whole minutes "87". Plain integers pass through.
func parseDurationMinutes(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	minutes, _, hasSeconds := strings.Cut(value, ":")
	if !hasSeconds {
		minutes = value
	}
	minutes = strings.TrimSuffix(strings.TrimSpace(minutes), "'")
	n, err := strconv.Atoi(minutes)
	if err != nil {
		return raw, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	return strconv.Itoa(n), nil
}

// parseAgeYears turns "24-307" (years-days) into "24". Plain year counts pass through.
func parseAgeYears(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	years, days, hasDays := strings.Cut(value, "-")
	if hasDays {
		if _, err := strconv.Atoi(strings.TrimSpace(days)); err != nil {
			return raw, fmt.Errorf("parse age days %q: %w", raw, err)
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(years))
	if err != nil {
		return raw, fmt.Errorf("parse age years %q: %w", raw, err)
	}
	return strconv.Itoa(n), nil
}
