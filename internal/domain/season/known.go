package season

const (
	FirstYear = 2013
	LastYear  = 2025
)

// scheduledMatches is the regular-season match count per year.
// 2020 had no regular season.
var scheduledMatches = map[int]int{
	2013: 88,
	2014: 108,
	2015: 90,
	2016: 100,
	2017: 120,
	2018: 108,
	2019: 108,
	2020: 0,
	2021: 120,
	2022: 132,
	2023: 132,
	2024: 182,
	2025: 182,
}

// Known returns every season of league from FirstYear to LastYear, oldest first.
func Known(league string) []Season {
	out := make([]Season, 0, LastYear-FirstYear+1)
	for year := FirstYear; year <= LastYear; year++ {
		out = append(out, Season{
			ID:                 ID(league, year),
			Year:               year,
			League:             NormalizeLeague(league),
			ExpectedMatchCount: scheduledMatches[year],
		})
	}
	return out
}

// ScheduledMatches reports the regular-season match count of a known year.
func ScheduledMatches(year int) (int, bool) {
	n, ok := scheduledMatches[year]
	return n, ok
}
