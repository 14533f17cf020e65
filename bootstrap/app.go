// Package bootstrap wires configuration into the stores and services shared
// by the command-line tools and the HTTP server.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"legalrag-backend/config"
	"legalrag-backend/logger"
	"legalrag-backend/repository"
	"legalrag-backend/service"
	"legalrag-backend/storage"

	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"go.uber.org/zap"
)

// App holds the long-lived clients and services of one process
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Registry  *prometheus.Registry
	Weaviate  *weaviate.Client
	DB        *pgxpool.Pool // nil when DATABASE_URL is unset
	Schema    *repository.SchemaRepository
	Documents *repository.LegalDocumentRepository
	Search    *repository.SearchRepository
	Users     *repository.APIUserRepository // nil without a database
	Archive   storage.Archive
	Ingestion *service.IngestionService
	Queries   *service.QueryService

	gemini *genai.Client
}

// LoadEnv loads .env from the working directory, then from the repository
// root when run from cmd/<name>.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}
}

// LoadConfig loads .env and the configuration file named by path, falling
// back to LEGALRAG_CONFIG.
func LoadConfig(path string) (*config.Config, error) {
	LoadEnv()
	if path == "" {
		path = os.Getenv("LEGALRAG_CONFIG")
	}
	return config.Load(path)
}

// New connects to the configured backends and builds the services. The
// database is optional; without it the job, source file and API user ledgers
// are disabled.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: log, Registry: prometheus.NewRegistry()}
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app.Weaviate, err = repository.NewWeaviateClient(repository.WeaviateOptions{
		URL:          cfg.Weaviate.URL,
		APIKey:       cfg.Weaviate.APIKey,
		OpenAIAPIKey: cfg.Weaviate.OpenAIAPIKey,
	})
	if err != nil {
		return nil, err
	}
	app.Schema = repository.NewSchemaRepository(app.Weaviate, cfg.Weaviate.BackupBackend)
	app.Documents = repository.NewLegalDocumentRepository(app.Weaviate)
	app.Search = repository.NewSearchRepository(app.Weaviate)

	if cfg.DatabaseURL != "" {
		app.DB, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := app.DB.Ping(ctx); err != nil {
			app.DB.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		app.Users = repository.NewAPIUserRepository(app.DB)
		log.Info("Postgres connection established")
	} else {
		log.Warn("DATABASE_URL not set, ingestion jobs and API users are disabled")
	}

	app.Archive, err = storage.New(ctx, cfg.Storage)
	if err != nil {
		app.Close()
		return nil, err
	}

	generator, err := app.generator(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	metrics := service.NewMetrics(app.Registry)
	ingestOpts := []service.IngestionServiceOption{
		service.IngestWithStore(app.Documents),
		service.IngestWithConfig(cfg.Ingestion),
		service.IngestWithLogger(log.Named("ingestion")),
		service.IngestWithMetrics(metrics),
	}
	if app.Archive != nil {
		ingestOpts = append(ingestOpts, service.IngestWithArchive(app.Archive))
	}
	if app.DB != nil {
		ingestOpts = append(ingestOpts,
			service.IngestWithJobLedger(repository.NewIngestionJobRepository(app.DB)),
			service.IngestWithSourceFileLedger(repository.NewSourceFileRepository(app.DB)),
		)
	}
	app.Ingestion = service.NewIngestionService(ingestOpts...)

	app.Queries = service.NewQueryService(
		service.QueryWithSearcher(app.Search),
		service.QueryWithGenerator(generator),
		service.QueryWithLogger(log.Named("query")),
		service.QueryWithMetrics(metrics),
	)
	return app, nil
}

func (a *App) generator(ctx context.Context) (service.Generator, error) {
	switch a.Config.Generation.Provider {
	case "gemini":
		client, err := service.NewGeminiClient(ctx, a.Config.Generation.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		a.gemini = client
		a.Logger.Info("Using Gemini for generation", zap.String("model", a.Config.Generation.GeminiModel))
		return service.NewGeminiGenerator(client,
			service.GeminiWithModel(a.Config.Generation.GeminiModel),
			service.GeminiWithTemperature(a.Config.Generation.Temperature),
			service.GeminiWithLogger(a.Logger.Named("gemini")),
		), nil
	case "weaviate":
		return a.Search, nil
	default:
		return nil, errors.New("unknown generation provider: " + a.Config.Generation.Provider)
	}
}

// EnsureSchemas creates the store classes and, when a database is
// configured, the ledger tables
func (a *App) EnsureSchemas(ctx context.Context) error {
	created, err := a.Schema.EnsureSchema(ctx)
	if err != nil {
		return err
	}
	for _, class := range created {
		a.Logger.Info("Created class", zap.String("class", class))
	}
	if a.DB != nil {
		if err := repository.EnsureLedgerSchema(ctx, a.DB); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database pool and generator client
func (a *App) Close() {
	if a.gemini != nil {
		a.gemini.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
	_ = a.Logger.Sync()
}
