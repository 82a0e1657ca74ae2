package postgres

import (
	"database/sql"
	"time"
)

type seasonTableModel struct {
	ID                 string    `db:"id"`
	Year               int       `db:"year"`
	League             string    `db:"league"`
	ExpectedMatchCount int       `db:"expected_match_count"`
	CreatedAt          time.Time `db:"created_at"`
}

type seasonInsertModel struct {
	ID                 string `db:"id"`
	Year               int    `db:"year"`
	League             string `db:"league"`
	ExpectedMatchCount int    `db:"expected_match_count"`
}

type teamTableModel struct {
	ID             string         `db:"id"`
	ExternalID     sql.NullString `db:"external_id"`
	Name           string         `db:"name"`
	NormalizedName string         `db:"normalized_name"`
	NaturalKey     string         `db:"natural_key"`
	CreatedAt      time.Time      `db:"created_at"`
}

type teamInsertModel struct {
	ID             string  `db:"id"`
	ExternalID     *string `db:"external_id"`
	Name           string  `db:"name"`
	NormalizedName string  `db:"normalized_name"`
	NaturalKey     string  `db:"natural_key"`
}

type teamAliasInsertModel struct {
	TeamID         string `db:"team_id"`
	SeasonID       string `db:"season_id"`
	Name           string `db:"name"`
	NormalizedName string `db:"normalized_name"`
}

type playerTableModel struct {
	ID             string         `db:"id"`
	ExternalID     sql.NullString `db:"external_id"`
	Name           string         `db:"name"`
	NormalizedName string         `db:"normalized_name"`
	NaturalKey     string         `db:"natural_key"`
	CreatedAt      time.Time      `db:"created_at"`
}

type playerInsertModel struct {
	ID             string  `db:"id"`
	ExternalID     *string `db:"external_id"`
	Name           string  `db:"name"`
	NormalizedName string  `db:"normalized_name"`
	NaturalKey     string  `db:"natural_key"`
}

type registrationInsertModel struct {
	PlayerID       string `db:"player_id"`
	TeamID         string `db:"team_id"`
	SeasonID       string `db:"season_id"`
	Name           string `db:"name"`
	NormalizedName string `db:"normalized_name"`
	ShirtNumber    *int64 `db:"shirt_number"`
}

// registeredRow is a player_registrations row joined with its player.
type registeredRow struct {
	PlayerID         string         `db:"player_id"`
	PlayerExternalID sql.NullString `db:"player_external_id"`
	PlayerName       string         `db:"player_name"`
	PlayerNormalized string         `db:"player_normalized_name"`
	PlayerNaturalKey string         `db:"player_natural_key"`
	TeamID           string         `db:"team_id"`
	SeasonID         string         `db:"season_id"`
	Name             string         `db:"name"`
	NormalizedName   string         `db:"normalized_name"`
	ShirtNumber      sql.NullInt64  `db:"shirt_number"`
}

type matchTableModel struct {
	ID         string       `db:"id"`
	SeasonID   string       `db:"season_id"`
	HomeTeamID string       `db:"home_team_id"`
	AwayTeamID string       `db:"away_team_id"`
	MatchDate  sql.NullTime `db:"match_date"`
	RosterSize int          `db:"roster_size"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

type matchInsertModel struct {
	ID         string     `db:"id"`
	SeasonID   string     `db:"season_id"`
	HomeTeamID string     `db:"home_team_id"`
	AwayTeamID string     `db:"away_team_id"`
	MatchDate  *time.Time `db:"match_date"`
	RosterSize int        `db:"roster_size"`
	UpdatedAt  time.Time  `db:"updated_at"`
}
