package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	seasonmock "github.com/riskibarqy/nwsl-stats/internal/mocks/domain/season"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
	"github.com/stretchr/testify/mock"
)

func TestSeasonService_Seed_UsesKnownSchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seasonmock.NewRepository(t)
	svc := NewSeasonService(repo, nil)

	want := season.Season{ID: "nwsl-2016", Year: 2016, League: "nwsl", ExpectedMatchCount: 100}
	repo.On("Create", mock.Anything, want).Return(true, nil).Once()

	got, created, err := svc.Seed(ctx, SeasonSeedInput{Year: 2016})
	if err != nil {
		t.Fatalf("seed season: %v", err)
	}
	if !created || got != want {
		t.Fatalf("unexpected season: got=%+v created=%v want=%+v", got, created, want)
	}
}

func TestSeasonService_Seed_ExistingSeasonIsReturned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seasonmock.NewRepository(t)
	svc := NewSeasonService(repo, nil)

	stored := season.Season{ID: "nwsl-2016", Year: 2016, League: "nwsl", ExpectedMatchCount: 99}
	repo.On("Create", mock.Anything, mock.AnythingOfType("season.Season")).Return(false, nil).Once()
	repo.On("GetByID", mock.Anything, "nwsl-2016").Return(stored, true, nil).Once()

	got, created, err := svc.Seed(ctx, SeasonSeedInput{League: "NWSL", Year: 2016})
	if err != nil {
		t.Fatalf("seed season: %v", err)
	}
	if created || got != stored {
		t.Fatalf("unexpected season: got=%+v created=%v want=%+v", got, created, stored)
	}
}

func TestSeasonService_Seed_UnknownYearNeedsMatchCount(t *testing.T) {
	t.Parallel()

	repo := seasonmock.NewRepository(t)
	svc := NewSeasonService(repo, nil)

	_, _, err := svc.Seed(context.Background(), SeasonSeedInput{Year: 2031})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrInvalidInput)
	}

	count := 210
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s season.Season) bool {
		return s.ID == "nwsl-2031" && s.ExpectedMatchCount == count
	})).Return(true, nil).Once()
	_, created, err := svc.Seed(context.Background(), SeasonSeedInput{Year: 2031, ExpectedMatchCount: &count})
	if err != nil || !created {
		t.Fatalf("seed override: created=%v err=%v", created, err)
	}
}

func TestSeasonService_SeedKnown(t *testing.T) {
	t.Parallel()

	repo := seasonmock.NewRepository(t)
	svc := NewSeasonService(repo, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(s season.Season) bool { return s.Year == 2013 })).Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s season.Season) bool { return s.Year != 2013 })).Return(true, nil)

	got, err := svc.SeedKnown(context.Background(), season.DefaultLeague)
	if err != nil {
		t.Fatalf("seed known: %v", err)
	}
	if want := season.LastYear - season.FirstYear; got != want {
		t.Fatalf("unexpected created count: got=%d want=%d", got, want)
	}
}

func TestSeasonService_Get_StoreDown(t *testing.T) {
	t.Parallel()

	repo := seasonmock.NewRepository(t)
	svc := NewSeasonService(repo, nil)
	repo.On("GetByID", mock.Anything, "nwsl-2016").
		Return(season.Season{}, false, storeerr.Mark(fmt.Errorf("connection refused"), storeerr.ErrUnavailable)).
		Once()

	_, err := svc.Get(context.Background(), "nwsl-2016")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrStoreUnavailable)
	}
}
