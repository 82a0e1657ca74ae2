package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	participationmock "github.com/riskibarqy/nwsl-stats/internal/mocks/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/normalization"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writerRecord(entityID string, goals int64) participation.Record {
	values := canonical.NewRecord()
	values.Set(canonical.PlayerName, canonical.TextValue("Player "+entityID))
	values.Set(canonical.Goals, canonical.IntValue(goals))
	return participation.NewRecord(participation.Key{
		MatchID:  "m1",
		EntityID: entityID,
		Category: participation.CategoryPlayer,
	}, values)
}

func TestParticipationWriter_WriteMatch_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := participationmock.NewRepository(t)
	writer := NewParticipationWriter(repo, nil)

	write := participation.MatchWrite{
		SeasonID: "nwsl-2016",
		MatchID:  "m1",
		Records:  []participation.Record{writerRecord("p1", 1), writerRecord("p2", 0)},
	}
	repo.
		On("WriteMatch", mock.Anything, write).
		Return(participation.WriteSummary{Inserted: 1, Unchanged: 1}, nil).
		Once()

	got, err := writer.WriteMatch(ctx, write)
	if err != nil {
		t.Fatalf("write match: %v", err)
	}
	if got.Total() != 2 {
		t.Fatalf("unexpected summary total: got=%d want=%d", got.Total(), 2)
	}
}

func TestParticipationWriter_WriteMatch_RejectsTamperedHash(t *testing.T) {
	t.Parallel()

	repo := participationmock.NewRepository(t)
	writer := NewParticipationWriter(repo, nil)

	rec := writerRecord("p1", 1)
	rec.Values.Set(canonical.Goals, canonical.IntValue(2))

	_, err := writer.WriteMatch(context.Background(), participation.MatchWrite{
		SeasonID: "nwsl-2016",
		MatchID:  "m1",
		Records:  []participation.Record{rec},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrInvalidInput)
	}
	repo.AssertNotCalled(t, "WriteMatch", mock.Anything, mock.Anything)
}

func TestParticipationWriter_WriteMatch_ClassifiesStoreErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "missing entity is a write conflict",
			err:  storeerr.Mark(fmt.Errorf("player p9 not found"), storeerr.ErrForeignKey),
			want: ErrWriteConflict,
		},
		{
			name: "unexplained failure is a write conflict",
			err:  fmt.Errorf("serialization failure"),
			want: ErrWriteConflict,
		},
		{
			name: "lost connection stops the season",
			err:  storeerr.Mark(fmt.Errorf("broken pipe"), storeerr.ErrUnavailable),
			want: ErrStoreUnavailable,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := participationmock.NewRepository(t)
			writer := NewParticipationWriter(repo, nil)
			repo.
				On("WriteMatch", mock.Anything, mock.AnythingOfType("participation.MatchWrite")).
				Return(participation.WriteSummary{}, tc.err).
				Once()

			_, err := writer.WriteMatch(context.Background(), participation.MatchWrite{
				SeasonID: "nwsl-2016",
				MatchID:  "m1",
				Records:  []participation.Record{writerRecord("p1", 1)},
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tc.want)
			}
		})
	}
}

func TestParticipationWriter_WriteMatch_RequiresIDs(t *testing.T) {
	t.Parallel()

	writer := NewParticipationWriter(participationmock.NewRepository(t), nil)
	_, err := writer.WriteMatch(context.Background(), participation.MatchWrite{MatchID: "m1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeduplicateRecords_KeepsMostPopulatedRow(t *testing.T) {
	t.Parallel()

	sparse := writerRecord("p1", 1)
	values := sparse.Values
	values.Set(canonical.Assists, canonical.IntValue(2))
	rich := participation.NewRecord(sparse.Key, values)
	other := writerRecord("p2", 0)

	got, warnings := DeduplicateRecords([]participation.Record{sparse, other, rich})
	require.Len(t, got, 2)
	assert.Equal(t, rich.ContentHash, got[0].ContentHash)
	assert.Equal(t, other.Key, got[1].Key)

	require.Len(t, warnings, 1)
	assert.Equal(t, normalization.ReasonDuplicateRow, warnings[0].Reason)
	assert.Equal(t, "p1", warnings[0].EntityID)
}
