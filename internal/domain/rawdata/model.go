package rawdata

import "time"

// Document describes one fetched match report. The payload itself is not kept.
type Document struct {
	MatchID     string
	SeasonID    string
	Format      string
	PayloadHash string
	ByteSize    int
	FetchedAt   time.Time
}
