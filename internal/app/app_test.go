package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskibarqy/nwsl-stats/internal/config"
	"github.com/riskibarqy/nwsl-stats/internal/domain/ingestion"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	"github.com/riskibarqy/nwsl-stats/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryArchiveConfig(dir string) config.Config {
	return config.Config{
		League:                    "nwsl",
		StoreDriver:               config.StoreDriverMemory,
		FetchSource:               config.FetchSourceArchive,
		DocumentArchiveDir:        dir,
		IngestWorkerCount:         2,
		CompletenessDefaultRoster: 28,
		RawArchiveEnabled:         true,
	}
}

func TestNew_MemoryStoreRunsArchivedSeason(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	raw, err := os.ReadFile(filepath.Join("..", "extraction", "testdata", "legacy_match.html"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m001.html"), raw, 0o644))

	a, err := New(memoryArchiveConfig(dir), logging.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	created, err := a.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 13, created)

	again, err := a.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again)

	report, err := a.Pipeline.Run(ctx, usecase.SeasonRunInput{
		SeasonID: "nwsl-2016",
		Matches:  []usecase.MatchRef{{ID: "m001"}, {ID: "m404"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.StateCounts[ingestion.StateDone])
	assert.Equal(t, 1, report.StateCounts[ingestion.StateFailed])

	missing, ok := report.Outcome("m404")
	require.True(t, ok)
	assert.Equal(t, ingestion.FailureFetch, missing.Category)

	require.NotNil(t, report.Completion)
	assert.Equal(t, 6, report.Completion.Actual)
}

func TestNew_RejectsUnusableSources(t *testing.T) {
	t.Parallel()

	cfg := memoryArchiveConfig("")
	if _, err := New(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected archive source without a directory to fail")
	}

	cfg = memoryArchiveConfig(t.TempDir())
	cfg.FetchSource = "ftp"
	_, err := New(cfg, logging.NewNop())
	if err == nil || !strings.Contains(err.Error(), "ftp") {
		t.Fatalf("unexpected error: got=%v want=unsupported fetch source", err)
	}

	cfg = memoryArchiveConfig(t.TempDir())
	cfg.StoreDriver = "sqlite"
	if _, err := New(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected unknown store driver to fail")
	}
}

func TestFormatDBQueryForTrace(t *testing.T) {
	t.Parallel()

	got := formatDBQueryForTrace("  SELECT id\n\tFROM seasons\n  WHERE id = $1 ")
	if got != "SELECT id FROM seasons WHERE id = $1" {
		t.Fatalf("unexpected query: got=%q", got)
	}

	long := formatDBQueryForTrace("SELECT " + strings.Repeat("x", 600))
	if len(long) != maxTracedQueryLength+3 || !strings.HasSuffix(long, "...") {
		t.Fatalf("unexpected truncation: got len=%d", len(long))
	}
}
