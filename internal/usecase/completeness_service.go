package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riskibarqy/nwsl-stats/internal/domain/completion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/match"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
	"golang.org/x/sync/errgroup"
)

// DefaultRosterEstimate is used for unplayed matches when no match of the
// season has a recorded roster yet.
const DefaultRosterEstimate = 28

type CompletenessReport struct {
	Record  completion.Record  `json:"record"`
	Matches []completion.Match `json:"matches"`
}

// CompletenessService derives season completeness from stored data only, so
// recomputing over unchanged data yields an equivalent record.
type CompletenessService struct {
	seasonRepo     season.Repository
	matchRepo      match.Repository
	recordRepo     participation.Repository
	completionRepo completion.Repository
	defaultRoster  int
	logger         *logging.Logger
	now            func() time.Time
}

func NewCompletenessService(
	seasonRepo season.Repository,
	matchRepo match.Repository,
	recordRepo participation.Repository,
	completionRepo completion.Repository,
	defaultRoster int,
	logger *logging.Logger,
	now func() time.Time,
) *CompletenessService {
	if defaultRoster <= 0 {
		defaultRoster = DefaultRosterEstimate
	}
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}

	return &CompletenessService{
		seasonRepo:     seasonRepo,
		matchRepo:      matchRepo,
		recordRepo:     recordRepo,
		completionRepo: completionRepo,
		defaultRoster:  defaultRoster,
		logger:         logger,
		now:            now,
	}
}

func (s *CompletenessService) Recompute(ctx context.Context, seasonID string) (CompletenessReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompletenessService.Recompute")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return CompletenessReport{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	var (
		item     season.Season
		found    bool
		matches  []match.Match
		coverage []participation.Coverage
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		item, found, err = s.seasonRepo.GetByID(groupCtx, seasonID)
		if err != nil {
			return fmt.Errorf("get season: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListBySeason(groupCtx, seasonID)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		coverage, err = s.recordRepo.CoverageBySeason(groupCtx, seasonID)
		if err != nil {
			return fmt.Errorf("list coverage: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return CompletenessReport{}, storeFailure(err)
	}
	if !found {
		return CompletenessReport{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	report := Completeness(item, matches, coverage, s.defaultRoster)
	report.Record.ComputedAt = s.now().UTC()

	if err := s.completionRepo.Upsert(ctx, report.Record); err != nil {
		return CompletenessReport{}, storeFailure(fmt.Errorf("upsert completion: %w", err))
	}

	s.logger.InfoContext(ctx, "season completeness recomputed",
		"season_id", seasonID,
		"expected", report.Record.Expected,
		"actual", report.Record.Actual,
		"ratio", report.Record.Ratio,
		"complete_matches", report.Record.CompleteMatches,
	)
	return report, nil
}

func (s *CompletenessService) Get(ctx context.Context, seasonID string) (completion.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompletenessService.Get")
	defer span.End()

	item, ok, err := s.completionRepo.GetBySeason(ctx, seasonID)
	if err != nil {
		return completion.Record{}, storeFailure(fmt.Errorf("get completion: %w", err))
	}
	if !ok {
		return completion.Record{}, fmt.Errorf("%w: completion for season=%s", ErrNotFound, seasonID)
	}
	return item, nil
}

// Completeness is the pure computation behind Recompute. Matches the season
// expects but the store has not seen yet are estimated at the mean recorded
// roster size, or defaultRoster when no roster is recorded.
func Completeness(item season.Season, matches []match.Match, coverage []participation.Coverage, defaultRoster int) CompletenessReport {
	byMatch := make(map[string]participation.Coverage, len(coverage))
	for _, cov := range coverage {
		byMatch[cov.MatchID] = cov
	}

	report := CompletenessReport{
		Record: completion.Record{
			SeasonID:   item.ID,
			MatchCount: len(matches),
		},
		Matches: make([]completion.Match, 0, len(matches)),
	}

	rosterSum, rostered := 0, 0
	for _, m := range matches {
		cov := byMatch[m.ID]
		row := completion.Match{
			MatchID:     m.ID,
			Expected:    m.RosterSize,
			Actual:      cov.PopulatedRecords,
			TeamRecords: cov.TeamRecords,
		}
		row.Complete = row.Actual >= row.Expected && row.TeamRecords == 2
		report.Matches = append(report.Matches, row)

		report.Record.Expected += m.RosterSize
		report.Record.Actual += cov.PopulatedRecords
		if cov.Records > 0 {
			report.Record.MatchesWithRecords++
		}
		if row.Complete {
			report.Record.CompleteMatches++
		}
		if m.RosterSize > 0 {
			rosterSum += m.RosterSize
			rostered++
		}
	}

	if missing := item.ExpectedMatchCount - len(matches); missing > 0 {
		estimate := defaultRoster
		if rostered > 0 {
			estimate = int(math.Round(float64(rosterSum) / float64(rostered)))
		}
		report.Record.Expected += missing * estimate
	}
	if report.Record.Expected > 0 {
		report.Record.Ratio = float64(report.Record.Actual) / float64(report.Record.Expected)
	}
	return report
}

func storeFailure(err error) error {
	if storeerr.IsUnavailable(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}
