package usecase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
	"github.com/riskibarqy/nwsl-stats/internal/domain/ingestion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/domain/player"
	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	"github.com/riskibarqy/nwsl-stats/internal/extraction"
	"github.com/riskibarqy/nwsl-stats/internal/identity"
	"github.com/riskibarqy/nwsl-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nwsl-stats/internal/normalization"
	"github.com/riskibarqy/nwsl-stats/internal/platform/id"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pipelineClock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type stubFetcher struct {
	mu       sync.Mutex
	docs     map[string][]byte
	failures map[string]int
	calls    map[string]int
	onFetch  func(matchID string)
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		docs:     map[string][]byte{},
		failures: map[string]int{},
		calls:    map[string]int{},
	}
}

func (f *stubFetcher) Fetch(_ context.Context, matchID string) ([]byte, error) {
	f.mu.Lock()
	f.calls[matchID]++
	hook := f.onFetch
	if f.failures[matchID] > 0 {
		f.failures[matchID]--
		f.mu.Unlock()
		return nil, fmt.Errorf("status 503 for %s", matchID)
	}
	raw, ok := f.docs[matchID]
	f.mu.Unlock()

	if hook != nil {
		hook(matchID)
	}
	if !ok {
		return nil, fmt.Errorf("status 404 for %s", matchID)
	}
	return raw, nil
}

func (f *stubFetcher) set(matchID string, raw []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[matchID] = raw
}

func (f *stubFetcher) fail(matchID string, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[matchID] = times
}

func (f *stubFetcher) callCount(matchID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[matchID]
}

// flakyRecords fails writes of selected matches as if the database went away.
type flakyRecords struct {
	*memory.ParticipationRepository
	down map[string]bool
}

func (r *flakyRecords) WriteMatch(ctx context.Context, write participation.MatchWrite) (participation.WriteSummary, error) {
	if r.down[write.MatchID] {
		return participation.WriteSummary{}, storeerr.Mark(fmt.Errorf("dial tcp: connection refused"), storeerr.ErrUnavailable)
	}
	return r.ParticipationRepository.WriteMatch(ctx, write)
}

type pipelineFixture struct {
	db      *memory.Database
	repos   PipelineRepositories
	records participation.Repository
	docs    *memory.RawDocumentRepository
	fetcher *stubFetcher
	season  season.Season
	now     time.Time
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	db := memory.NewDatabase()
	f := &pipelineFixture{
		db:      db,
		records: memory.NewParticipationRepository(db),
		docs:    memory.NewRawDocumentRepository(db),
		fetcher: newStubFetcher(),
		now:     pipelineClock,
	}
	f.repos = PipelineRepositories{
		Seasons:   memory.NewSeasonRepository(db),
		Teams:     memory.NewTeamRepository(db),
		Players:   memory.NewPlayerRepository(db),
		Matches:   memory.NewMatchRepository(db),
		Statuses:  memory.NewIngestionStatusRepository(db),
		Documents: f.docs,
	}
	db.SetClock(f.clock)

	for _, s := range season.Known(season.DefaultLeague) {
		_, err := f.repos.Seasons.Create(context.Background(), s)
		require.NoError(t, err)
		if s.Year == 2016 {
			f.season = s
		}
	}
	return f
}

func (f *pipelineFixture) clock() time.Time { return f.now }

func (f *pipelineFixture) service(workers int) *SeasonPipelineService {
	writer := NewParticipationWriter(f.records, nil)
	completeness := NewCompletenessService(
		f.repos.Seasons,
		f.repos.Matches,
		f.records,
		memory.NewCompletionRepository(f.db),
		DefaultRosterEstimate,
		nil,
		f.clock,
	)
	return NewSeasonPipelineService(
		f.repos,
		f.fetcher,
		writer,
		completeness,
		normalization.New(normalization.WithAbsentByFormatWarnings(false)),
		PipelineConfig{Workers: workers, ArchiveRaw: true},
		nil,
		f.clock,
	)
}

func (f *pipelineFixture) statuses(t *testing.T) map[string]ingestion.Status {
	t.Helper()

	items, err := f.repos.Statuses.ListBySeason(context.Background(), f.season.ID)
	require.NoError(t, err)
	out := make(map[string]ingestion.Status, len(items))
	for _, item := range items {
		out[item.MatchID] = item
	}
	return out
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("..", "extraction", "testdata", name))
	require.NoError(t, err)
	return raw
}

func matchRefs(ids ...string) []MatchRef {
	out := make([]MatchRef, 0, len(ids))
	for _, matchID := range ids {
		out = append(out, MatchRef{ID: matchID})
	}
	return out
}

func seqMatchIDs(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("m%03d", i))
	}
	return out
}

func TestSeasonPipeline_LegacyMatchEndToEnd(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	f.fetcher.set("a1", readFixture(t, "legacy_match.html"))

	report, err := f.service(2).Run(context.Background(), SeasonRunInput{
		SeasonID: f.season.ID,
		Matches:  matchRefs("a1"),
	})
	require.NoError(t, err)

	outcome, ok := report.Outcome("a1")
	require.True(t, ok)
	assert.Equal(t, ingestion.StateDone, outcome.State)
	assert.Equal(t, extraction.FormatLegacy, outcome.Format)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, 6, outcome.Records)
	assert.Equal(t, participation.WriteSummary{Inserted: 6}, report.Write)
	assert.Equal(t, 6, f.db.RecordCount())

	stored, err := f.records.ListByMatch(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, stored, 6)

	teams := 0
	for _, rec := range stored {
		if rec.Category == participation.CategoryTeam {
			teams++
			assert.True(t, rec.Values.Get(canonical.PlayerName).IsNull())
			continue
		}
		for _, spec := range canonical.Fields() {
			if _, ok := extraction.LegacyLayout.Mapping(spec.Name); ok {
				continue
			}
			assert.Truef(t, rec.Values.Get(spec.Name).IsNull(), "%s must be null in a legacy record", spec.Name)
		}
	}
	assert.Equal(t, 2, teams)

	// the blank shots cell is reported, never stored as zero
	var shots []normalization.Warning
	for _, w := range report.Warnings {
		if w.Field == canonical.Shots {
			shots = append(shots, w)
		}
	}
	require.Len(t, shots, 1)
	assert.Equal(t, normalization.ReasonNotReported, shots[0].Reason)
	assert.Equal(t, "a1", shots[0].MatchID)
	assert.NotEmpty(t, shots[0].EntityID)

	m, ok, err := f.repos.Matches.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, m.RosterSize)
	require.NotNil(t, m.MatchDate)
	assert.Equal(t, "2016-04-16", m.MatchDate.Format("2006-01-02"))

	doc, ok := f.docs.Get("a1")
	require.True(t, ok)
	assert.Equal(t, "LEGACY", doc.Format)
	assert.Len(t, doc.PayloadHash, 64)

	require.NotNil(t, report.Completion)
	assert.Equal(t, 6, report.Completion.Actual)
	assert.Equal(t, ingestion.StateDone, f.statuses(t)["a1"].State)
}

func TestSeasonPipeline_RerunIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	f.fetcher.set("a1", readFixture(t, "legacy_match.html"))
	svc := f.service(1)
	input := SeasonRunInput{SeasonID: f.season.ID, Matches: matchRefs("a1")}

	first, err := svc.Run(context.Background(), input)
	require.NoError(t, err)
	before, err := f.records.ListByMatch(context.Background(), "a1")
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	second, err := f.service(4).Run(context.Background(), input)
	require.NoError(t, err)
	after, err := f.records.ListByMatch(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, participation.WriteSummary{Unchanged: 6}, second.Write)
	assert.Equal(t, 6, f.db.RecordCount())
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Key, after[i].Key)
		assert.Equal(t, before[i].ContentHash, after[i].ContentHash)
		assert.Equal(t, before[i].CreatedAt, after[i].CreatedAt)
	}
	require.NotNil(t, first.Completion)
	require.NotNil(t, second.Completion)
	if !first.Completion.Equivalent(*second.Completion) {
		t.Fatalf("completeness changed on rerun: got=%+v want=%+v", *second.Completion, *first.Completion)
	}
}

func TestSeasonPipeline_OneFailingMatchDoesNotStopTheSeason(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	raw := readFixture(t, "legacy_match.html")
	ids := seqMatchIDs(100)
	for _, matchID := range ids {
		f.fetcher.set(matchID, raw)
	}
	f.fetcher.fail("m042", 5)

	report, err := f.service(8).Run(context.Background(), SeasonRunInput{
		SeasonID: f.season.ID,
		Matches:  matchRefs(ids...),
	})
	require.NoError(t, err)

	assert.Equal(t, 99, report.StateCounts[ingestion.StateDone])
	assert.Equal(t, 1, report.StateCounts[ingestion.StateFailed])
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "m042", report.Failures[0].MatchID)
	assert.Equal(t, ingestion.FailureFetch, report.Failures[0].Category)
	assert.Equal(t, 99*6, f.db.RecordCount())

	statuses := f.statuses(t)
	assert.Equal(t, ingestion.StateFailed, statuses["m042"].State)
	assert.Equal(t, ingestion.FailureFetch, statuses["m042"].Category)
	assert.Equal(t, ingestion.StateDone, statuses["m001"].State)
}

func TestSeasonPipeline_FetchIsRetriedExactlyOnce(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	raw := readFixture(t, "legacy_match.html")
	f.fetcher.set("flaky", raw)
	f.fetcher.set("down", raw)
	f.fetcher.fail("flaky", 1)
	f.fetcher.fail("down", 10)

	report, err := f.service(2).Run(context.Background(), SeasonRunInput{
		SeasonID: f.season.ID,
		Matches:  matchRefs("flaky", "down"),
	})
	require.NoError(t, err)

	flaky, _ := report.Outcome("flaky")
	assert.Equal(t, ingestion.StateDone, flaky.State)
	assert.Equal(t, 2, flaky.Attempts)

	down, _ := report.Outcome("down")
	assert.Equal(t, ingestion.StateFailed, down.State)
	assert.Equal(t, ingestion.FailureFetch, down.Category)
	assert.Equal(t, 2, down.Attempts)
	if got := f.fetcher.callCount("down"); got != 2 {
		t.Fatalf("unexpected fetch attempts: got=%d want=%d", got, 2)
	}
	assert.Equal(t, 2, f.statuses(t)["down"].Attempts)
}

func TestSeasonPipeline_FormatMismatchIsAParseError(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	f.fetcher.set("modern-in-2016", readFixture(t, "modern_match.html"))
	f.fetcher.set("garbage", []byte("<html><body><p>not a match report</p></body></html>"))

	report, err := f.service(1).Run(context.Background(), SeasonRunInput{
		SeasonID: f.season.ID,
		Matches:  matchRefs("modern-in-2016", "garbage"),
	})
	require.NoError(t, err)

	for _, matchID := range []string{"modern-in-2016", "garbage"} {
		outcome, _ := report.Outcome(matchID)
		assert.Equalf(t, ingestion.StateFailed, outcome.State, "match %s", matchID)
		assert.Equalf(t, ingestion.FailureParse, outcome.Category, "match %s", matchID)
	}
	assert.Zero(t, f.db.RecordCount())
}

func TestSeasonPipeline_FormatOverrideAcceptsModernDocument(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	f.fetcher.set("override", readFixture(t, "modern_match.html"))

	report, err := f.service(1).Run(context.Background(), SeasonRunInput{
		SeasonID: f.season.ID,
		Matches:  []MatchRef{{ID: "override", Format: extraction.FormatModern}},
	})
	require.NoError(t, err)

	outcome, _ := report.Outcome("override")
	assert.Equal(t, ingestion.StateDone, outcome.State)
	assert.Equal(t, extraction.FormatModern, outcome.Format)
}

func TestSeasonPipeline_CancellationLeavesQueuedMatchesPending(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	raw := readFixture(t, "legacy_match.html")
	ids := seqMatchIDs(5)
	for _, matchID := range ids {
		f.fetcher.set(matchID, raw)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.fetcher.onFetch = func(string) { cancel() }

	report, err := f.service(1).Run(ctx, SeasonRunInput{
		SeasonID: f.season.ID,
		Matches:  matchRefs(ids...),
	})
	require.ErrorIs(t, err, context.Canceled)

	// the in-flight match finishes; nothing after it starts
	assert.Equal(t, 1, report.StateCounts[ingestion.StateDone])
	assert.Equal(t, 4, report.StateCounts[ingestion.StatePending])
	assert.Equal(t, 1, f.fetcher.callCount("m001"))
	for _, matchID := range ids[1:] {
		assert.Zerof(t, f.fetcher.callCount(matchID), "match %s was fetched", matchID)
		assert.Equal(t, ingestion.StatePending, f.statuses(t)[matchID].State)
	}
	assert.Equal(t, 6, f.db.RecordCount())
}

func TestSeasonPipeline_UnavailableStoreStopsTheRun(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	f.records = &flakyRecords{
		ParticipationRepository: memory.NewParticipationRepository(f.db),
		down:                    map[string]bool{"m002": true},
	}
	raw := readFixture(t, "legacy_match.html")
	ids := seqMatchIDs(4)
	for _, matchID := range ids {
		f.fetcher.set(matchID, raw)
	}

	report, err := f.service(1).Run(context.Background(), SeasonRunInput{
		SeasonID: f.season.ID,
		Matches:  matchRefs(ids...),
	})
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotEmpty(t, report.Error)
	assert.Nil(t, report.Completion)

	assert.Equal(t, 1, report.StateCounts[ingestion.StateDone])
	assert.Equal(t, 3, report.StateCounts[ingestion.StatePending])
	assert.Zero(t, report.StateCounts[ingestion.StateFailed])
	assert.Zero(t, f.fetcher.callCount("m003"))
	assert.Zero(t, f.fetcher.callCount("m004"))
	assert.Equal(t, 6, f.db.RecordCount())
}

func TestSeasonPipeline_ReportDoesNotDependOnWorkerCount(t *testing.T) {
	t.Parallel()

	ids := seqMatchIDs(12)
	run := func(workers int) (RunReport, []participation.Record) {
		f := newPipelineFixture(t)
		legacy := readFixture(t, "legacy_match.html")
		for i, matchID := range ids {
			switch {
			case i%5 == 4:
				f.fetcher.set(matchID, readFixture(t, "modern_match.html"))
			default:
				f.fetcher.set(matchID, legacy)
			}
		}
		f.fetcher.fail(ids[2], 1)
		f.fetcher.fail(ids[7], 3)

		report, err := f.service(workers).Run(context.Background(), SeasonRunInput{
			SeasonID: f.season.ID,
			Matches:  matchRefs(ids...),
		})
		require.NoError(t, err)

		var stored []participation.Record
		for _, matchID := range ids {
			recs, err := f.records.ListByMatch(context.Background(), matchID)
			require.NoError(t, err)
			stored = append(stored, recs...)
		}
		report.Workers = 0
		return report, stored
	}

	serialReport, serialRecords := run(1)
	parallelReport, parallelRecords := run(8)

	assert.Equal(t, serialReport, parallelReport)
	require.Len(t, parallelRecords, len(serialRecords))
	for i := range serialRecords {
		assert.Equal(t, serialRecords[i].Key, parallelRecords[i].Key)
		assert.Equal(t, serialRecords[i].ContentHash, parallelRecords[i].ContentHash)
	}

	var a, b bytes.Buffer
	require.NoError(t, serialReport.WriteJSON(&a))
	require.NoError(t, parallelReport.WriteJSON(&b))
	assert.Equal(t, a.String(), b.String())
}

func TestSeasonPipeline_SourceCorrectionUpdatesOnlyTheChangedField(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	original := readFixture(t, "legacy_match.html")
	f.fetcher.set("a1", original)
	input := SeasonRunInput{SeasonID: f.season.ID, Matches: matchRefs("a1")}

	_, err := f.service(1).Run(context.Background(), input)
	require.NoError(t, err)
	before, err := f.records.ListByMatch(context.Background(), "a1")
	require.NoError(t, err)

	smithGoals := `<td data-stat="age">24-307</td><td data-stat="minutes">90</td><td data-stat="goals">1</td>`
	require.Equal(t, 1, bytes.Count(original, []byte(smithGoals)))
	corrected := bytes.Replace(original, []byte(smithGoals), []byte(strings.Replace(smithGoals, ">1<", ">2<", 1)), 1)
	f.fetcher.set("a1", corrected)
	f.now = f.now.Add(24 * time.Hour)

	report, err := f.service(1).Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, participation.WriteSummary{Updated: 1, Unchanged: 5}, report.Write)
	assert.Equal(t, 6, f.db.RecordCount())

	after, err := f.records.ListByMatch(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, after, len(before))

	changed := 0
	for i := range before {
		require.Equal(t, before[i].Key, after[i].Key)
		diff := before[i].Values.Diff(after[i].Values)
		if len(diff) == 0 {
			continue
		}
		changed++
		assert.Equal(t, []canonical.Field{canonical.Goals}, diff)
		assert.Equal(t, canonical.IntValue(2), after[i].Values.Get(canonical.Goals))
		assert.Equal(t, before[i].CreatedAt, after[i].CreatedAt)
		assert.True(t, after[i].LastModifiedAt.After(before[i].LastModifiedAt))
	}
	assert.Equal(t, 1, changed)
}

func TestSeasonPipeline_AmbiguousPlayerIsExcludedAndReported(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	ctx := context.Background()

	// two stored players share the name that the source now reports without an id
	resolver := identity.NewResolver(f.repos.Teams, f.repos.Players, f.repos.Matches, nil, nil)
	portland, err := resolver.ResolveTeam(ctx, f.season, "df9a10a1", "Portland Thorns FC")
	require.NoError(t, err)
	ids := id.NewDeterministicGenerator()
	var candidates []string
	for _, key := range []string{"seed:smith-1", "seed:smith-2"} {
		p := player.Player{
			ID:             ids.FromKey("player", key),
			Name:           "J. Smith",
			NormalizedName: "j smith",
			NaturalKey:     key,
		}
		require.NoError(t, f.repos.Players.Create(ctx, p))
		require.NoError(t, f.repos.Players.UpsertRegistration(ctx, player.Registration{
			PlayerID:       p.ID,
			TeamID:         portland.ID,
			SeasonID:       f.season.ID,
			Name:           "J. Smith",
			NormalizedName: "j smith",
		}))
		candidates = append(candidates, p.ID)
	}
	sort.Strings(candidates)

	raw := readFixture(t, "legacy_match.html")
	withID := `data-append-csv="a1b2c3d4" scope="row"><a href="/en/players/a1b2c3d4/J.-Smith">J. Smith</a>`
	require.Equal(t, 1, bytes.Count(raw, []byte(withID)))
	f.fetcher.set("a1", bytes.Replace(raw, []byte(withID), []byte(`scope="row">J. Smith`), 1))

	report, err := f.service(1).Run(ctx, SeasonRunInput{SeasonID: f.season.ID, Matches: matchRefs("a1")})
	require.NoError(t, err)

	outcome, _ := report.Outcome("a1")
	assert.Equal(t, ingestion.StateFailed, outcome.State)
	assert.Equal(t, ingestion.FailureResolutionAmbiguous, outcome.Category)
	assert.Equal(t, 5, outcome.Records)
	assert.Equal(t, 5, f.db.RecordCount())

	require.Len(t, report.Ambiguities, 1)
	got := append([]string(nil), report.Ambiguities[0].Candidates...)
	sort.Strings(got)
	assert.Equal(t, candidates, got)
	assert.Equal(t, 1, report.WarningCounts[normalization.ReasonEntityAmbiguous])
}

func TestSeasonPipeline_NameCollisionInOneDocumentIsAmbiguous(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	ctx := context.Background()

	// both Portland rows lose their ids and report the same name
	raw := readFixture(t, "legacy_match.html")
	for _, row := range []string{
		`data-append-csv="a1b2c3d4" scope="row"><a href="/en/players/a1b2c3d4/J.-Smith">J. Smith</a>`,
		`data-append-csv="e5f6a7b8" scope="row"><a href="/en/players/e5f6a7b8/Lindsey-Horan">Lindsey Horan</a>`,
	} {
		require.Equal(t, 1, bytes.Count(raw, []byte(row)))
		raw = bytes.Replace(raw, []byte(row), []byte(`scope="row">J. Smith`), 1)
	}
	f.fetcher.set("a1", raw)

	report, err := f.service(1).Run(ctx, SeasonRunInput{SeasonID: f.season.ID, Matches: matchRefs("a1")})
	require.NoError(t, err)

	outcome, _ := report.Outcome("a1")
	assert.Equal(t, ingestion.StateFailed, outcome.State)
	assert.Equal(t, ingestion.FailureResolutionAmbiguous, outcome.Category)
	// two team totals and the away players
	assert.Equal(t, 4, outcome.Records)
	assert.Equal(t, 4, f.db.RecordCount())

	require.Len(t, report.Ambiguities, 2)
	keys := []string{report.Ambiguities[0].EntityKey, report.Ambiguities[1].EntityKey}
	assert.Equal(t, []string{"player:df9a10a1:J. Smith", "player:df9a10a1:J. Smith#2"}, keys)
	for _, item := range report.Ambiguities {
		assert.Equal(t, "J. Smith", item.Name)
		assert.Equal(t, keys, item.Candidates)
		assert.NotEmpty(t, item.TeamID)
	}
	assert.Equal(t, 2, report.WarningCounts[normalization.ReasonEntityAmbiguous])
	assert.Zero(t, report.WarningCounts[normalization.ReasonDuplicateRow])

	registered, err := f.repos.Players.ListRegistered(ctx, report.Ambiguities[0].TeamID, []string{f.season.ID})
	require.NoError(t, err)
	assert.Empty(t, registered)
}

func TestNameCollisions(t *testing.T) {
	t.Parallel()

	row := func(team int, externalID, name string) normalization.Result {
		return normalization.Result{Entity: extraction.Entity{
			Kind:           extraction.EntityPlayer,
			ExternalID:     externalID,
			Name:           name,
			TeamExternalID: fmt.Sprintf("t%d", team),
			TeamIndex:      team,
		}}
	}

	results := []normalization.Result{
		row(0, "", "Sofía Huerta"),
		row(0, "", "sofia  huerta"),
		row(1, "", "Sofia Huerta"),
		row(0, "aa", "Kerry Abello"),
		row(0, "bb", "Kerry Abello"),
		row(1, "cc", "Debinha"),
		row(1, "", "Debinha"),
		{Entity: extraction.Entity{Kind: extraction.EntityTeam, Name: "Debinha", TeamIndex: 1}},
	}

	got := nameCollisions(results)
	indexes := make([]int, 0, len(got))
	for i := range got {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	// distinct ids tell rows apart; a name-only row sharing a name does not
	require.Equal(t, []int{0, 1, 6}, indexes)
	assert.Equal(t, []string{"player:t0:Sofía Huerta", "player:t0:sofia  huerta"}, got[0])
	assert.Equal(t, []string{"player:t1:cc", "player:t1:Debinha"}, got[6])
}

func TestSeasonPipeline_OnlyPendingResumesUnfinishedMatches(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	raw := readFixture(t, "legacy_match.html")
	ids := seqMatchIDs(3)
	for _, matchID := range ids {
		f.fetcher.set(matchID, raw)
	}
	f.fetcher.fail("m002", 2)
	input := SeasonRunInput{SeasonID: f.season.ID, Matches: matchRefs(ids...)}

	first, err := f.service(2).Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, first.StateCounts[ingestion.StateFailed])

	input.OnlyPending = true
	second, err := f.service(2).Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"m001", "m003"}, second.Skipped)
	assert.Equal(t, 1, second.MatchCount)
	assert.Equal(t, 1, second.StateCounts[ingestion.StateDone])
	assert.Equal(t, 1, f.fetcher.callCount("m001"))
	assert.Equal(t, 3, f.fetcher.callCount("m002"))
	assert.Equal(t, ingestion.StateDone, f.statuses(t)["m002"].State)
}

func TestSeasonPipeline_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t)
	svc := f.service(1)

	_, err := svc.Run(context.Background(), SeasonRunInput{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Run(context.Background(), SeasonRunInput{SeasonID: f.season.ID, Matches: []MatchRef{{ID: ""}}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Run(context.Background(), SeasonRunInput{SeasonID: "wpsl-1999"})
	require.ErrorIs(t, err, ErrNotFound)
}
