package internal

import (
	"context"
	"fmt"
	"mercadona-parser-service/internal/adapters/csvstorage"
	"mercadona-parser-service/internal/adapters/mercadonafetcher"
	postgres_adapter "mercadona-parser-service/internal/adapters/postgres"
	rabbitmq_adapter "mercadona-parser-service/internal/adapters/rabbitmq"
	sqlite_adapter "mercadona-parser-service/internal/adapters/sqlite"
	"mercadona-parser-service/internal/configs"
	"mercadona-parser-service/internal/constants"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"mercadona-parser-service/internal/core/usecase"
	"mercadona-parser-service/pkg/postgres"
	"mercadona-parser-service/pkg/rabbitmq/rabbitmq_common"
	"mercadona-parser-service/pkg/rabbitmq/rabbitmq_producer"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotOptions - параметры одного запуска сборщика
type SnapshotOptions struct {
	// Single - один склад по умолчанию и файл без разбиения по регионам
	Single  bool
	Date    time.Time
	Regions []string
}

// App - сборщик снапшотов со всеми зависимостями
type App struct {
	config       *configs.AppConfig
	logger       port.LoggerPort
	fluentClient *fluent.Fluent

	dbPool        *pgxpool.Pool
	sqliteArchive *sqlite_adapter.SnapshotArchiveAdapter
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher

	regions      *configs.RegionTable
	builder      *usecase.BuildSnapshotUseCase
	orchestrator *usecase.OrchestrateSnapshotsUseCase
}

// NewApp - composition root сборщика. Архивы и события подключаются, только если заданы в конфигурации.
func NewApp(ctx context.Context, appConfig *configs.AppConfig) (*App, error) {
	baseLogger, fluentClient, err := newLogger(appConfig)
	if err != nil {
		return nil, err
	}
	app := &App{
		config:       appConfig,
		logger:       baseLogger.WithFields(port.Fields{"component": "app"}),
		fluentClient: fluentClient,
	}

	if err := app.init(ctx, baseLogger); err != nil {
		app.logger.Error("Failed to initialize application", err, nil)
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context, baseLogger port.LoggerPort) error {
	cfg := a.config

	regions, err := configs.LoadRegionTable(cfg.Snapshot.RegionsFile)
	if err != nil {
		return fmt.Errorf("failed to load region table: %w", err)
	}
	a.regions = regions
	a.logger.Info("Region table loaded", port.Fields{"regions": len(regions.All()), "file": cfg.Snapshot.RegionsFile})

	fetcher, err := mercadonafetcher.NewMercadonaFetcherAdapter(mercadonafetcher.Config{
		BaseURL:      cfg.Mercadona.BaseURL,
		ProbeTimeout: cfg.Mercadona.ProbeTimeout,
		FetchTimeout: cfg.Mercadona.FetchTimeout,
		RequestDelay: cfg.Mercadona.RequestDelay,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mercadona fetcher: %w", err)
	}

	csvWriter, err := csvstorage.NewSnapshotCSVAdapter(cfg.Snapshot.OutputDir, cfg.Snapshot.FilePrefix)
	if err != nil {
		return err
	}

	var sinks usecase.SnapshotSinks

	if cfg.Database.URL != "" {
		a.dbPool, err = postgres.NewClient(ctx, postgres.Config{DatabaseURL: cfg.Database.URL, ConnectTimeout: 10 * time.Second})
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		pgArchive, err := postgres_adapter.NewSnapshotArchiveAdapter(a.dbPool)
		if err != nil {
			return err
		}
		if err := pgArchive.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks.Archives = append(sinks.Archives, pgArchive)
		a.logger.Info("PostgreSQL archive enabled", nil)
	}

	if cfg.Database.SQLitePath != "" {
		a.sqliteArchive, err = sqlite_adapter.NewSnapshotArchiveAdapter(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return err
		}
		sinks.Archives = append(sinks.Archives, a.sqliteArchive)
		a.logger.Info("SQLite archive enabled", port.Fields{"path": cfg.Database.SQLitePath})
	}

	if cfg.RabbitMQ.URL != "" {
		connBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		a.connManager, err = rabbitmq_common.NewConnectionManager(ctx, rabbitmq_common.Config{URL: cfg.RabbitMQ.URL}, connBridge)
		if err != nil {
			return fmt.Errorf("failed to create connection manager: %w", err)
		}

		a.eventProducer, err = rabbitmq_producer.NewPublisher(ctx, rabbitmq_producer.PublisherConfig{
			ExchangeName:    constants.ExchangeSnapshots,
			ExchangeType:    "direct",
			Durable:         true,
			DeclareExchange: true,
			Logger:          rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, a.connManager)
		if err != nil {
			return fmt.Errorf("failed to create event producer: %w", err)
		}

		sinks.Notifier, err = rabbitmq_adapter.NewSnapshotEventsAdapter(a.eventProducer, constants.RoutingKeySnapshotWritten)
		if err != nil {
			return err
		}
		a.logger.Info("Snapshot events enabled", port.Fields{"exchange": constants.ExchangeSnapshots})
	}

	a.builder = usecase.NewBuildSnapshotUseCase(
		usecase.NewProbeCategoriesUseCase(fetcher),
		usecase.NewExtractProductsUseCase(fetcher),
		csvWriter,
		usecase.BuildSnapshotConfig{Language: cfg.Mercadona.Language, MaxCategoryID: cfg.Mercadona.MaxCategoryID},
		sinks,
	)
	a.orchestrator = usecase.NewOrchestrateSnapshotsUseCase(a.builder)

	a.logger.Info("All use cases initialized.", port.Fields{"archives": len(sinks.Archives), "events": sinks.Notifier != nil})
	return nil
}

// RunSnapshots выполняет один запуск. Неизвестный регион - ошибка до первого запроса к магазину.
func (a *App) RunSnapshots(ctx context.Context, opts SnapshotOptions) (domain.RunStats, error) {
	ctx = contextkeys.ContextWithLogger(ctx, a.logger)

	if opts.Single {
		a.logger.Info("Running single-warehouse snapshot", port.Fields{"warehouse": a.config.Mercadona.DefaultWarehouse})
		summary, err := a.builder.Execute(ctx, domain.SnapshotScope{
			Warehouses: []string{a.config.Mercadona.DefaultWarehouse},
		}, opts.Date)

		stats := domain.RunStats{Regions: 1}
		if summary != nil {
			stats.Summaries = append(stats.Summaries, *summary)
			stats.Records = summary.Records
		}
		if err != nil {
			return stats, err
		}
		stats.Written = 1
		return stats, nil
	}

	regions, err := a.regions.Select(opts.Regions)
	if err != nil {
		return domain.RunStats{}, err
	}
	return a.orchestrator.Execute(ctx, regions, opts.Date)
}

// RegionName - название региона для вывода пользователю
func (a *App) RegionName(key string) string {
	return a.regions.DisplayName(key)
}

// Close освобождает ресурсы в обратном порядке создания
func (a *App) Close() {
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.sqliteArchive != nil {
		if err := a.sqliteArchive.Close(); err != nil {
			a.logger.Error("Error closing SQLite archive", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		_ = a.fluentClient.Close()
	}
}
