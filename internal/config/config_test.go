package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("FETCH_SOURCE", "")
	t.Setenv("INGEST_WORKER_COUNT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("unexpected store driver: got=%s want=%s", cfg.StoreDriver, StoreDriverPostgres)
	}
	if cfg.FetchSource != FetchSourceHTTP {
		t.Fatalf("unexpected fetch source: got=%s want=%s", cfg.FetchSource, FetchSourceHTTP)
	}
	if cfg.IngestWorkerCount != 4 {
		t.Fatalf("unexpected worker count: got=%d want=%d", cfg.IngestWorkerCount, 4)
	}
	if cfg.CompletenessDefaultRoster != 28 {
		t.Fatalf("unexpected default roster: got=%d want=%d", cfg.CompletenessDefaultRoster, 28)
	}
	if !cfg.FBrefCircuitEnabled {
		t.Fatalf("expected FBrefCircuitEnabled=true by default")
	}
}

func TestLoad_IngestSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("INGEST_WORKER_COUNT", "32")
	t.Setenv("INGEST_FETCH_RETRY_BACKOFF", "250ms")
	t.Setenv("FETCH_SOURCE", "archive")
	t.Setenv("DOCUMENT_ARCHIVE_DIR", "/data/reports")
	t.Setenv("FBREF_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreDriverMemory {
		t.Fatalf("unexpected store driver: got=%s want=%s", cfg.StoreDriver, StoreDriverMemory)
	}
	if cfg.IngestWorkerCount != 32 {
		t.Fatalf("unexpected worker count: got=%d want=%d", cfg.IngestWorkerCount, 32)
	}
	if cfg.IngestFetchRetryBackoff != 250*time.Millisecond {
		t.Fatalf("unexpected retry backoff: got=%s want=%s", cfg.IngestFetchRetryBackoff, 250*time.Millisecond)
	}
	if cfg.DocumentArchiveDir != "/data/reports" {
		t.Fatalf("unexpected archive dir: %q", cfg.DocumentArchiveDir)
	}
	if cfg.FBrefTimeout != 5*time.Second {
		t.Fatalf("unexpected FBref timeout: %s", cfg.FBrefTimeout)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store driver", env: map[string]string{"STORE_DRIVER": "sqlite"}},
		{name: "unknown fetch source", env: map[string]string{"FETCH_SOURCE": "ftp"}},
		{name: "archive without dir", env: map[string]string{"FETCH_SOURCE": "archive", "DOCUMENT_ARCHIVE_DIR": ""}},
		{name: "zero workers", env: map[string]string{"INGEST_WORKER_COUNT": "0"}},
		{name: "more workers than connections", env: map[string]string{"INGEST_WORKER_COUNT": "20", "DB_MAX_OPEN_CONNS": "8"}},
		{name: "bad backoff", env: map[string]string{"INGEST_FETCH_RETRY_BACKOFF": "soon"}},
		{name: "zero roster estimate", env: map[string]string{"COMPLETENESS_DEFAULT_ROSTER": "0"}},
		{name: "circuit threshold", env: map[string]string{"FBREF_CIRCUIT_FAILURE_COUNT": "0"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", tc.env)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_LogLevel(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_LOG_LEVEL", "WARNING")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected log level: got=%s want=%s", cfg.LogLevel.String(), "warn")
	}
}
