package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/nwsl-stats/internal/domain/ingestion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMemoryArchiveEnv(t *testing.T, archiveDir string) {
	t.Helper()

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("FETCH_SOURCE", "archive")
	t.Setenv("DOCUMENT_ARCHIVE_DIR", archiveDir)
	t.Setenv("INGEST_FETCH_RETRY_BACKOFF", "1ms")
	t.Setenv("INGEST_WORKER_COUNT", "2")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "false")
	t.Setenv("APP_LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rt := &session{}
	cmd := newRootCmd(rt)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	require.NoError(t, rt.stop())
	return out.String(), err
}

func TestRunCmd_WritesReport(t *testing.T) {
	archiveDir := t.TempDir()
	setMemoryArchiveEnv(t, archiveDir)

	raw, err := os.ReadFile(filepath.Join("..", "..", "internal", "extraction", "testdata", "legacy_match.html"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(archiveDir, "m001.html"), raw, 0o644))

	work := t.TempDir()
	manifestPath := filepath.Join(work, "season.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte("season: nwsl-2016\nmatches:\n  - id: m001\n"), 0o644))
	reportPath := filepath.Join(work, "report.json")

	_, err = execute(t, "run", "--manifest", manifestPath, "--report", reportPath)
	require.NoError(t, err)

	body, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report struct {
		SeasonID    string                     `json:"season_id"`
		StateCounts map[ingestion.State]int    `json:"state_counts"`
		Write       participation.WriteSummary `json:"write"`
	}
	require.NoError(t, sonic.Unmarshal(body, &report))
	assert.Equal(t, "nwsl-2016", report.SeasonID)
	assert.Equal(t, 1, report.StateCounts[ingestion.StateDone])
	assert.Equal(t, 6, report.Write.Inserted)
}

func TestRunCmd_RequiresManifest(t *testing.T) {
	setMemoryArchiveEnv(t, t.TempDir())

	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--manifest")
}

func TestSeasonSeedCmd(t *testing.T) {
	setMemoryArchiveEnv(t, t.TempDir())

	out, err := execute(t, "season", "seed", "--year", "2030", "--expected-matches", "150")
	require.NoError(t, err)
	assert.Equal(t, "created nwsl-2030 expected_matches=150\n", out)

	_, err = execute(t, "season", "seed", "--year", "2031")
	require.Error(t, err)
}

func TestSeasonSeedKnownCmd(t *testing.T) {
	setMemoryArchiveEnv(t, t.TempDir())

	out, err := execute(t, "season", "seed-known")
	require.NoError(t, err)
	assert.Equal(t, "created 13 season(s)\n", out)
}
