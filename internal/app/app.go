package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/nwsl-stats/external/fbref"
	"github.com/riskibarqy/nwsl-stats/internal/config"
	"github.com/riskibarqy/nwsl-stats/internal/domain/completion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/nwsl-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nwsl-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/nwsl-stats/internal/normalization"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	"github.com/riskibarqy/nwsl-stats/internal/platform/resilience"
	"github.com/riskibarqy/nwsl-stats/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// App bundles the services the ingest commands run against.
type App struct {
	Seasons      *usecase.SeasonService
	Completeness *usecase.CompletenessService
	Pipeline     *usecase.SeasonPipelineService

	cfg    config.Config
	logger *logging.Logger
	db     *sqlx.DB
}

type stores struct {
	repos         usecase.PipelineRepositories
	participation participation.Repository
	completion    completion.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{cfg: cfg, logger: logger}

	var st stores
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		st = memoryStores(memory.NewDatabase())
		logger.Warn("using in-memory store, nothing is persisted")
	case config.StoreDriverPostgres, "":
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		st = postgresStores(db)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	writer := usecase.NewParticipationWriter(st.participation, logger)
	a.Seasons = usecase.NewSeasonService(st.repos.Seasons, logger)
	a.Completeness = usecase.NewCompletenessService(
		st.repos.Seasons,
		st.repos.Matches,
		st.participation,
		st.completion,
		cfg.CompletenessDefaultRoster,
		logger,
		time.Now,
	)
	a.Pipeline = usecase.NewSeasonPipelineService(
		st.repos,
		fetcher,
		writer,
		a.Completeness,
		normalization.New(normalization.WithAbsentByFormatWarnings(cfg.AbsentByFormatWarnings)),
		usecase.PipelineConfig{
			Workers:           cfg.IngestWorkerCount,
			FetchRetryBackoff: cfg.IngestFetchRetryBackoff,
			ArchiveRaw:        cfg.RawArchiveEnabled,
		},
		logger,
		time.Now,
	)

	return a, nil
}

// Bootstrap inserts the known seasons of the configured league. Existing
// seasons are never rewritten.
func (a *App) Bootstrap(ctx context.Context) (int, error) {
	if a.db != nil {
		return postgres.BootstrapSeed(ctx, a.db, a.cfg.League)
	}
	return a.Seasons.SeedKnown(ctx, a.cfg.League)
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := strings.TrimSpace(cfg.DBURL)
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL is required for store driver %s", config.StoreDriverPostgres)
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(dsn, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	maxOpen := cfg.DBMaxOpenConns
	if maxOpen <= 0 {
		maxOpen = cfg.IngestWorkerCount
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

func memoryStores(db *memory.Database) stores {
	return stores{
		repos: usecase.PipelineRepositories{
			Seasons:   memory.NewSeasonRepository(db),
			Teams:     memory.NewTeamRepository(db),
			Players:   memory.NewPlayerRepository(db),
			Matches:   memory.NewMatchRepository(db),
			Statuses:  memory.NewIngestionStatusRepository(db),
			Documents: memory.NewRawDocumentRepository(db),
		},
		participation: memory.NewParticipationRepository(db),
		completion:    memory.NewCompletionRepository(db),
	}
}

func postgresStores(db *sqlx.DB) stores {
	return stores{
		repos: usecase.PipelineRepositories{
			Seasons:   cache.NewSeasonRepository(postgres.NewSeasonRepository(db)),
			Teams:     postgres.NewTeamRepository(db),
			Players:   postgres.NewPlayerRepository(db),
			Matches:   postgres.NewMatchRepository(db),
			Statuses:  postgres.NewIngestionStatusRepository(db),
			Documents: postgres.NewRawDocumentRepository(db),
		},
		participation: postgres.NewParticipationRepository(db),
		completion:    postgres.NewCompletionRepository(db),
	}
}

// newFetcher picks the document source. An HTTP source with an archive
// directory keeps a local copy of every page it downloads.
func newFetcher(cfg config.Config, logger *logging.Logger) (usecase.DocumentFetcher, error) {
	switch cfg.FetchSource {
	case config.FetchSourceArchive:
		if strings.TrimSpace(cfg.DocumentArchiveDir) == "" {
			return nil, fmt.Errorf("DOCUMENT_ARCHIVE_DIR is required for fetch source %s", config.FetchSourceArchive)
		}
		return fbref.NewArchive(cfg.DocumentArchiveDir), nil
	case config.FetchSourceHTTP, "":
		client := fbref.NewClient(fbref.ClientConfig{
			BaseURL:   cfg.FBrefBaseURL,
			Timeout:   cfg.FBrefTimeout,
			UserAgent: cfg.FBrefUserAgent,
			Logger:    logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FBrefCircuitEnabled,
				FailureThreshold: cfg.FBrefCircuitFailureCount,
				OpenTimeout:      cfg.FBrefCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FBrefCircuitHalfOpenMaxReq,
			},
		})
		if strings.TrimSpace(cfg.DocumentArchiveDir) == "" {
			return client, nil
		}
		return fbref.NewMirror(client, fbref.NewArchive(cfg.DocumentArchiveDir), logger), nil
	default:
		return nil, fmt.Errorf("unsupported fetch source %q", cfg.FetchSource)
	}
}
