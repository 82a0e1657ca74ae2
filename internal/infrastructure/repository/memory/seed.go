package memory

import "github.com/riskibarqy/nwsl-stats/internal/domain/season"

// SeedSeasons returns the seasons a fresh store is bootstrapped with.
func SeedSeasons(league string) []season.Season {
	return season.Known(league)
}
