package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
)

type SeasonSeedInput struct {
	League string `validate:"omitempty,alphanum,max=32"`
	Year   int    `validate:"required,gte=1900,lte=2100"`
	// ExpectedMatchCount overrides the known schedule; required for unknown years.
	ExpectedMatchCount *int `validate:"omitempty,gte=0"`
}

type SeasonService struct {
	seasonRepo season.Repository
	validate   *validator.Validate
	logger     *logging.Logger
}

func NewSeasonService(seasonRepo season.Repository, logger *logging.Logger) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SeasonService{
		seasonRepo: seasonRepo,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Seed creates one season. An existing season is returned unchanged with
// created=false.
func (s *SeasonService) Seed(ctx context.Context, input SeasonSeedInput) (season.Season, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Seed")
	defer span.End()

	input.League = strings.TrimSpace(input.League)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return season.Season{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	expected, known := season.ScheduledMatches(input.Year)
	if input.ExpectedMatchCount != nil {
		expected = *input.ExpectedMatchCount
	} else if !known {
		return season.Season{}, false, fmt.Errorf("%w: expected match count is required for year %d", ErrInvalidInput, input.Year)
	}

	item := season.Season{
		ID:                 season.ID(input.League, input.Year),
		Year:               input.Year,
		League:             season.NormalizeLeague(input.League),
		ExpectedMatchCount: expected,
	}
	if err := item.Validate(); err != nil {
		return season.Season{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.seasonRepo.Create(ctx, item)
	if err != nil {
		return season.Season{}, false, storeFailure(fmt.Errorf("create season %s: %w", item.ID, err))
	}
	if !created {
		existing, err := s.Get(ctx, item.ID)
		if err != nil {
			return season.Season{}, false, err
		}
		return existing, false, nil
	}

	s.logger.InfoContext(ctx, "season seeded", "season_id", item.ID, "expected_match_count", item.ExpectedMatchCount)
	return item, true, nil
}

// SeedKnown creates every known season of league and reports how many were new.
func (s *SeasonService) SeedKnown(ctx context.Context, league string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.SeedKnown")
	defer span.End()

	created := 0
	for _, item := range season.Known(league) {
		ok, err := s.seasonRepo.Create(ctx, item)
		if err != nil {
			return created, storeFailure(fmt.Errorf("create season %s: %w", item.ID, err))
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *SeasonService) Get(ctx context.Context, seasonID string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Get")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return season.Season{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	item, ok, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, storeFailure(fmt.Errorf("get season: %w", err))
	}
	if !ok {
		return season.Season{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}
	return item, nil
}
