package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
	"github.com/riskibarqy/nwsl-stats/internal/domain/ingestion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/match"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/domain/player"
	"github.com/riskibarqy/nwsl-stats/internal/domain/rawdata"
	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	"github.com/riskibarqy/nwsl-stats/internal/domain/team"
	"github.com/riskibarqy/nwsl-stats/internal/extraction"
	"github.com/riskibarqy/nwsl-stats/internal/identity"
	"github.com/riskibarqy/nwsl-stats/internal/normalization"
	"github.com/riskibarqy/nwsl-stats/internal/platform/id"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// DocumentFetcher returns the raw match report for a match id. Any error is
// treated as transient and retried once.
type DocumentFetcher interface {
	Fetch(ctx context.Context, matchID string) ([]byte, error)
}

type MatchRef struct {
	ID string `json:"id" yaml:"id" validate:"required,max=64"`
	// Format overrides the year rule when the document is known to differ.
	Format extraction.Format `json:"format,omitempty" yaml:"format" validate:"omitempty,oneof=LEGACY MODERN"`
}

type SeasonRunInput struct {
	SeasonID string     `validate:"required"`
	Matches  []MatchRef `validate:"dive"`
	// Workers overrides the configured pool size when positive.
	Workers int `validate:"gte=0,lte=64"`
	// OnlyPending skips matches whose stored status is DONE.
	OnlyPending bool
}

type PipelineConfig struct {
	Workers           int
	FetchRetryBackoff time.Duration
	// ArchiveRaw stores a hash and size of every fetched document.
	ArchiveRaw bool
}

type PipelineRepositories struct {
	Seasons   season.Repository
	Teams     team.Repository
	Players   player.Repository
	Matches   match.Repository
	Statuses  ingestion.Repository
	Documents rawdata.Repository
}

// SeasonPipelineService drives every match of a season through fetch, parse,
// normalize, resolve and write, then recomputes season completeness.
type SeasonPipelineService struct {
	repos        PipelineRepositories
	fetcher      DocumentFetcher
	writer       *ParticipationWriter
	completeness *CompletenessService
	detector     *extraction.Detector
	mapper       *extraction.Mapper
	normalizer   *normalization.Normalizer
	ids          *id.DeterministicGenerator
	cfg          PipelineConfig
	validate     *validator.Validate
	logger       *logging.Logger
	now          func() time.Time
}

func NewSeasonPipelineService(
	repos PipelineRepositories,
	fetcher DocumentFetcher,
	writer *ParticipationWriter,
	completeness *CompletenessService,
	normalizer *normalization.Normalizer,
	cfg PipelineConfig,
	logger *logging.Logger,
	now func() time.Time,
) *SeasonPipelineService {
	if normalizer == nil {
		normalizer = normalization.New()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}

	return &SeasonPipelineService{
		repos:        repos,
		fetcher:      fetcher,
		writer:       writer,
		completeness: completeness,
		detector:     extraction.NewDetector(),
		mapper:       extraction.NewMapper(),
		normalizer:   normalizer,
		ids:          id.NewDeterministicGenerator(),
		cfg:          cfg,
		validate:     validator.New(),
		logger:       logger,
		now:          now,
	}
}

// Run processes the season's matches on a bounded pool. A failing match never
// stops the others; only an unavailable store does, in which case every match
// not yet finished is left PENDING and the error is returned with the report.
// Cancelling ctx leaves queued matches PENDING while in-flight ones finish.
func (s *SeasonPipelineService) Run(ctx context.Context, input SeasonRunInput) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonPipelineService.Run")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return RunReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.fetcher == nil || s.writer == nil || s.completeness == nil {
		return RunReport{}, fmt.Errorf("%w: pipeline is not fully configured", ErrDependencyUnavailable)
	}

	item, ok, err := s.repos.Seasons.GetByID(ctx, input.SeasonID)
	if err != nil {
		return RunReport{}, storeFailure(fmt.Errorf("get season: %w", err))
	}
	if !ok {
		return RunReport{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonID)
	}

	refs, skipped, err := s.selectMatches(ctx, input)
	if err != nil {
		return RunReport{}, err
	}

	workerCount := normalizeWorkerCount(input.Workers, s.cfg.Workers, len(refs))
	report := newRunReport(item.ID, workerCount, s.now())
	report.Skipped = skipped

	s.logger.InfoContext(ctx, "season run started",
		"season_id", item.ID,
		"matches", len(refs),
		"skipped", len(skipped),
		"workers", workerCount,
	)

	outcomes, fatal := s.runMatches(ctx, item, refs, workerCount)
	report.addOutcomes(outcomes)

	if fatal == nil {
		finishCtx := context.WithoutCancel(ctx)
		if err := s.finish(finishCtx, item, outcomes, &report); err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				fatal = err
			} else {
				report.Error = err.Error()
				s.logger.WarnContext(ctx, "season run finish step failed", "season_id", item.ID, "error", err)
			}
		}
	}

	report.FinishedAt = s.now().UTC()
	if fatal != nil {
		report.Error = fatal.Error()
		s.logger.ErrorContext(ctx, "season run aborted", "season_id", item.ID, "error", fatal)
		return report, fatal
	}
	s.logger.InfoContext(ctx, "season run finished",
		"season_id", item.ID,
		"done", report.StateCounts[ingestion.StateDone],
		"failed", report.StateCounts[ingestion.StateFailed],
		"pending", report.StateCounts[ingestion.StatePending],
	)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *SeasonPipelineService) selectMatches(ctx context.Context, input SeasonRunInput) ([]MatchRef, []string, error) {
	done := map[string]struct{}{}
	if input.OnlyPending {
		statuses, err := s.repos.Statuses.ListBySeason(ctx, input.SeasonID)
		if err != nil {
			return nil, nil, storeFailure(fmt.Errorf("list ingestion status: %w", err))
		}
		for _, st := range statuses {
			if st.State == ingestion.StateDone {
				done[st.MatchID] = struct{}{}
			}
		}
	}

	seen := make(map[string]struct{}, len(input.Matches))
	refs := make([]MatchRef, 0, len(input.Matches))
	var skipped []string
	for _, ref := range input.Matches {
		ref.ID = strings.TrimSpace(ref.ID)
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}
		if _, ok := done[ref.ID]; ok {
			skipped = append(skipped, ref.ID)
			continue
		}
		refs = append(refs, ref)
	}
	sort.Strings(skipped)
	return refs, skipped, nil
}

func (s *SeasonPipelineService) runMatches(ctx context.Context, item season.Season, refs []MatchRef, workerCount int) ([]MatchOutcome, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		fatalOnce sync.Once
		fatalErr  error
	)
	abort := func(err error) {
		fatalOnce.Do(func() {
			fatalErr = err
			cancel()
		})
	}

	for _, ref := range refs {
		st := ingestion.Status{MatchID: ref.ID, SeasonID: item.ID, State: ingestion.StatePending}
		if err := s.saveStatus(ctx, st); err != nil && errors.Is(err, ErrStoreUnavailable) {
			return pendingOutcomes(refs, err.Error()), err
		}
	}

	resolver := identity.NewResolver(s.repos.Teams, s.repos.Players, s.repos.Matches, s.ids, s.logger)
	results := make(chan MatchOutcome, len(refs))

	var doneCount atomic.Int32
	var failedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for idx, ref := range refs {
		ref := ref
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			if runCtx.Err() != nil {
				results <- MatchOutcome{MatchID: ref.ID, State: ingestion.StatePending, Reason: "run stopped before the match started"}
				return
			}

			// in-flight matches run to completion even when the run is cancelled
			workCtx := context.WithoutCancel(runCtx)
			outcome := s.runMatchSafely(workCtx, item, ref, resolver)
			if outcome.fatal != nil {
				abort(outcome.fatal)
			}

			switch outcome.State {
			case ingestion.StateDone:
				doneCount.Add(1)
			case ingestion.StateFailed:
				failedCount.Add(1)
			}
			results <- outcome
		}); err != nil {
			workers.Done()
			abort(fmt.Errorf("submit match to worker pool: %w", err))
			for _, rest := range refs[idx:] {
				results <- MatchOutcome{MatchID: rest.ID, State: ingestion.StatePending, Reason: "not scheduled"}
			}
			break
		}
	}

	workers.Wait()
	close(results)

	outcomes := make([]MatchOutcome, 0, len(refs))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].MatchID < outcomes[j].MatchID
	})

	s.logger.DebugContext(ctx, "season matches processed",
		"season_id", item.ID,
		"done", doneCount.Load(),
		"failed", failedCount.Load(),
	)
	return outcomes, fatalErr
}

func pendingOutcomes(refs []MatchRef, reason string) []MatchOutcome {
	out := make([]MatchOutcome, 0, len(refs))
	for _, ref := range refs {
		out = append(out, MatchOutcome{MatchID: ref.ID, State: ingestion.StatePending, Reason: reason})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out
}

// runMatchSafely turns a panic anywhere in the match into a parse failure.
func (s *SeasonPipelineService) runMatchSafely(ctx context.Context, item season.Season, ref MatchRef, resolver *identity.Resolver) MatchOutcome {
	var outcome MatchOutcome
	var catcher panics.Catcher
	catcher.Try(func() {
		outcome = s.runMatch(ctx, item, ref, resolver)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		s.logger.ErrorContext(ctx, "match processing panicked", "match_id", ref.ID, "panic", recovered.Value)
		outcome = MatchOutcome{
			MatchID:  ref.ID,
			State:    ingestion.StateFailed,
			Category: ingestion.FailureParse,
			Reason:   fmt.Sprintf("panic: %v", recovered.Value),
		}
		s.persistOutcome(ctx, item.ID, &outcome)
	}
	return outcome
}

// matchRun carries one match through the state machine.
type matchRun struct {
	s       *SeasonPipelineService
	season  season.Season
	ref     MatchRef
	outcome MatchOutcome
}

func (r *matchRun) enter(ctx context.Context, state ingestion.State) error {
	r.outcome.State = state
	return r.s.saveStatus(ctx, r.outcome.status(r.season.ID))
}

func (r *matchRun) fail(category ingestion.FailureCategory, err error) MatchOutcome {
	if errors.Is(err, ErrStoreUnavailable) {
		return r.stop(err)
	}
	r.outcome.State = ingestion.StateFailed
	r.outcome.Category = category
	r.outcome.Reason = err.Error()
	return r.outcome
}

// stop marks the run fatal; the match itself stays PENDING for the next run.
func (r *matchRun) stop(err error) MatchOutcome {
	r.outcome.State = ingestion.StatePending
	r.outcome.Category = ""
	r.outcome.Reason = err.Error()
	r.outcome.fatal = err
	return r.outcome
}

func (s *SeasonPipelineService) runMatch(ctx context.Context, item season.Season, ref MatchRef, resolver *identity.Resolver) MatchOutcome {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonPipelineService.runMatch")
	defer span.End()

	run := &matchRun{s: s, season: item, ref: ref, outcome: MatchOutcome{MatchID: ref.ID}}
	outcome := s.process(ctx, run, resolver)
	if outcome.fatal == nil {
		s.persistOutcome(ctx, item.ID, &outcome)
	}
	return outcome
}

func (s *SeasonPipelineService) process(ctx context.Context, run *matchRun, resolver *identity.Resolver) MatchOutcome {
	item, ref := run.season, run.ref

	if err := run.enter(ctx, ingestion.StateFetching); err != nil {
		return run.stop(err)
	}
	raw, err := s.fetch(ctx, ref.ID, &run.outcome.Attempts)
	if err != nil {
		return run.fail(ingestion.FailureFetch, err)
	}
	run.outcome.document = &rawdata.Document{
		MatchID:     ref.ID,
		SeasonID:    item.ID,
		PayloadHash: payloadHash(raw),
		ByteSize:    len(raw),
		FetchedAt:   s.now().UTC(),
	}

	if err := run.enter(ctx, ingestion.StateParsing); err != nil {
		return run.stop(err)
	}
	doc, err := extraction.ParseDocument(raw)
	if err != nil {
		return run.fail(ingestion.FailureParse, err)
	}
	layout, err := s.detector.Detect(item.Year, ref.Format, doc)
	if err != nil {
		return run.fail(ingestion.FailureParse, err)
	}
	run.outcome.Format = layout.Format
	run.outcome.document.Format = string(layout.Format)
	if len(doc.Teams) != 2 {
		return run.fail(ingestion.FailureParse, fmt.Errorf("%w: expected 2 teams, found %d", extraction.ErrDocumentUnparseable, len(doc.Teams)))
	}

	if err := run.enter(ctx, ingestion.StateNormalizing); err != nil {
		return run.stop(err)
	}
	intermediates := s.mapper.Map(doc, layout)
	results := make([]normalization.Result, 0, len(intermediates))
	rosterSize := 0
	for _, in := range intermediates {
		if in.Entity.Kind == extraction.EntityPlayer {
			rosterSize++
		}
		res, err := s.normalizer.Normalize(in)
		if err != nil {
			run.outcome.rejected = append(run.outcome.rejected, RejectedRecord{
				MatchID:   ref.ID,
				EntityKey: in.Entity.Key(),
				Reason:    err.Error(),
			})
			continue
		}
		for i := range res.Warnings {
			res.Warnings[i].MatchID = ref.ID
		}
		results = append(results, res)
	}

	if err := run.enter(ctx, ingestion.StateResolving); err != nil {
		return run.stop(err)
	}
	records, err := s.resolve(ctx, run, resolver, doc, results, rosterSize)
	if err != nil {
		if errors.Is(err, ErrResolutionAmbiguous) {
			return run.fail(ingestion.FailureResolutionAmbiguous, err)
		}
		return run.fail(ingestion.FailureWriteConflict, err)
	}

	if err := run.enter(ctx, ingestion.StateWriting); err != nil {
		return run.stop(err)
	}
	records, dups := DeduplicateRecords(records)
	for i := range dups {
		dups[i].MatchID = ref.ID
	}
	run.outcome.warnings = append(run.outcome.warnings, dups...)

	summary, err := s.writer.WriteMatch(ctx, participation.MatchWrite{
		SeasonID: item.ID,
		MatchID:  ref.ID,
		Records:  records,
	})
	if err != nil {
		return run.fail(ingestion.FailureWriteConflict, err)
	}
	run.outcome.Records = len(records)
	run.outcome.Write = summary

	if len(run.outcome.ambiguities) > 0 {
		return run.fail(ingestion.FailureResolutionAmbiguous, fmt.Errorf(
			"%w: %d entities excluded from the write",
			ErrResolutionAmbiguous,
			len(run.outcome.ambiguities),
		))
	}
	run.outcome.State = ingestion.StateDone
	return run.outcome
}

func (s *SeasonPipelineService) fetch(ctx context.Context, matchID string, attempts *int) ([]byte, error) {
	raw, err := backoff.Retry(ctx, func() ([]byte, error) {
		*attempts++
		raw, err := s.fetcher.Fetch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		return raw, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(s.cfg.FetchRetryBackoff)),
		backoff.WithMaxTries(2),
		backoff.WithNotify(func(err error, wait time.Duration) {
			s.logger.WarnContext(ctx, "fetch failed, retrying", "match_id", matchID, "wait", wait.String(), "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: match=%s attempts=%d: %w", ErrFetch, matchID, *attempts, err)
	}
	return raw, nil
}

// resolve maps every normalized row to a stored entity. Ambiguous players are
// recorded on the outcome and left out; every other failure aborts the match.
func (s *SeasonPipelineService) resolve(
	ctx context.Context,
	run *matchRun,
	resolver *identity.Resolver,
	doc *extraction.Document,
	results []normalization.Result,
	rosterSize int,
) ([]participation.Record, error) {
	teams := make([]team.Team, len(doc.Teams))
	for _, side := range doc.Teams {
		resolved, err := resolver.ResolveTeam(ctx, run.season, side.ExternalID, side.Name)
		if err != nil {
			return nil, s.classifyResolve(err)
		}
		teams[side.Index] = resolved
	}

	if err := resolver.EnsureMatch(ctx, match.Match{
		ID:         run.ref.ID,
		SeasonID:   run.season.ID,
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		MatchDate:  doc.MatchDate,
		RosterSize: rosterSize,
	}); err != nil {
		return nil, s.classifyResolve(err)
	}

	collisions := nameCollisions(results)

	records := make([]participation.Record, 0, len(results))
	for i, res := range results {
		if group, ok := collisions[i]; ok {
			teamID := ""
			if idx := res.Entity.TeamIndex; idx >= 0 && idx < len(teams) {
				teamID = teams[idx].ID
			}
			run.outcome.ambiguities = append(run.outcome.ambiguities, Ambiguity{
				MatchID:    run.ref.ID,
				EntityKey:  res.Entity.Key(),
				Name:       res.Entity.Name,
				TeamID:     teamID,
				Candidates: group,
			})
			run.outcome.warnings = append(run.outcome.warnings, normalization.Warning{
				MatchID:   run.ref.ID,
				EntityKey: res.Entity.Key(),
				Reason:    normalization.ReasonEntityAmbiguous,
				Detail:    strings.Join(group, ","),
			})
			continue
		}

		teamIdx := res.Entity.TeamIndex
		if teamIdx < 0 || teamIdx >= len(teams) {
			run.outcome.rejected = append(run.outcome.rejected, RejectedRecord{
				MatchID:   run.ref.ID,
				EntityKey: res.Entity.Key(),
				Reason:    "row is not attached to a match team",
			})
			continue
		}

		key := participation.Key{MatchID: run.ref.ID}
		switch res.Entity.Kind {
		case extraction.EntityTeam:
			key.EntityID = teams[teamIdx].ID
			key.Category = participation.CategoryTeam
		default:
			resolution, err := resolver.ResolvePlayer(ctx, identity.PlayerInput{
				Season:      run.season,
				TeamID:      teams[teamIdx].ID,
				ExternalID:  res.Entity.ExternalID,
				Name:        res.Entity.Name,
				ShirtNumber: shirtNumber(res.Record),
			})
			if err != nil {
				var ambiguity *identity.AmbiguityError
				if errors.As(err, &ambiguity) {
					run.outcome.ambiguities = append(run.outcome.ambiguities, Ambiguity{
						MatchID:     run.ref.ID,
						EntityKey:   res.Entity.Key(),
						Name:        ambiguity.Name,
						TeamID:      ambiguity.TeamID,
						Candidates:  ambiguity.Candidates,
						Suggestions: ambiguity.Suggestions,
					})
					run.outcome.warnings = append(run.outcome.warnings, normalization.Warning{
						MatchID:   run.ref.ID,
						EntityKey: res.Entity.Key(),
						Reason:    normalization.ReasonEntityAmbiguous,
						Detail:    strings.Join(ambiguity.Candidates, ","),
					})
					continue
				}
				return nil, s.classifyResolve(err)
			}
			if resolution.Minted && len(resolution.Suggestions) > 0 {
				s.logger.InfoContext(ctx, "new player resembles registered names",
					"match_id", run.ref.ID,
					"player_id", resolution.Player.ID,
					"name", res.Entity.Name,
					"suggestions", resolution.Suggestions,
				)
			}
			key.EntityID = resolution.Player.ID
			key.Category = participation.CategoryPlayer
		}

		for _, w := range res.Warnings {
			w.EntityID = key.EntityID
			run.outcome.warnings = append(run.outcome.warnings, w)
		}
		records = append(records, participation.NewRecord(key, res.Record))
	}
	return records, nil
}

// nameCollisions finds player rows of one team whose names normalize alike
// and that carry no external id to tell them apart. Each such row maps to the
// entity keys of every row in its group.
func nameCollisions(results []normalization.Result) map[int][]string {
	type groupKey struct {
		team int
		name string
	}
	groups := make(map[groupKey][]int)
	for i, res := range results {
		if res.Entity.Kind != extraction.EntityPlayer {
			continue
		}
		name := identity.NormalizeName(res.Entity.Name)
		if name == "" {
			continue
		}
		k := groupKey{team: res.Entity.TeamIndex, name: name}
		groups[k] = append(groups[k], i)
	}

	out := make(map[int][]string)
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		keys := make([]string, 0, len(members))
		for _, i := range members {
			keys = append(keys, results[i].Entity.Key())
		}
		for _, i := range members {
			if results[i].Entity.ExternalID == "" {
				out[i] = keys
			}
		}
	}
	return out
}

func (s *SeasonPipelineService) classifyResolve(err error) error {
	switch {
	case errors.Is(err, ErrResolutionAmbiguous):
		return err
	case storeerr.IsUnavailable(err):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrWriteConflict, err)
	}
}

func shirtNumber(rec canonical.Record) *int {
	v := rec.Get(canonical.ShirtNumber)
	if v.IsNull() {
		return nil
	}
	n := int(v.Int)
	return &n
}

func payloadHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (s *SeasonPipelineService) persistOutcome(ctx context.Context, seasonID string, outcome *MatchOutcome) {
	if err := s.saveStatus(ctx, outcome.status(seasonID)); err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			outcome.fatal = err
		}
	}
}

func (s *SeasonPipelineService) saveStatus(ctx context.Context, st ingestion.Status) error {
	st.UpdatedAt = s.now().UTC()
	if err := s.repos.Statuses.Save(ctx, st); err != nil {
		s.logger.WarnContext(ctx, "save ingestion status failed", "match_id", st.MatchID, "state", st.State, "error", err)
		return storeFailure(fmt.Errorf("save ingestion status match=%s: %w", st.MatchID, err))
	}
	return nil
}

// finish archives raw document metadata and recomputes completeness in parallel.
func (s *SeasonPipelineService) finish(ctx context.Context, item season.Season, outcomes []MatchOutcome, report *RunReport) error {
	documents := make([]rawdata.Document, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.document != nil {
			documents = append(documents, *outcome.document)
		}
	}

	var completeness CompletenessReport
	tasks := pool.New().WithErrors()
	if s.cfg.ArchiveRaw && s.repos.Documents != nil && len(documents) > 0 {
		tasks.Go(func() error {
			if err := s.repos.Documents.UpsertMany(ctx, documents); err != nil {
				return storeFailure(fmt.Errorf("archive raw documents: %w", err))
			}
			return nil
		})
	}
	tasks.Go(func() error {
		var err error
		completeness, err = s.completeness.Recompute(ctx, item.ID)
		return err
	})
	if err := tasks.Wait(); err != nil {
		return err
	}

	record := completeness.Record
	report.Completion = &record
	report.CompletionMatches = completeness.Matches
	return nil
}

func normalizeWorkerCount(requested, configured, matchCount int) int {
	value := configured
	if requested > 0 {
		value = requested
	}
	if value <= 0 {
		value = 1
	}
	if matchCount > 0 && value > matchCount {
		value = matchCount
	}
	return value
}
