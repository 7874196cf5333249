package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-match/internal/config"
	"skill-match/internal/database"
	"skill-match/internal/database/migration"
	dbpostgres "skill-match/internal/database/postgres"
	"skill-match/internal/domain/catalog"
	"skill-match/internal/events"
	"skill-match/internal/infrastructure/cache"
	"skill-match/internal/infrastructure/storage"
	"skill-match/internal/logger"
	"skill-match/internal/pkg/jwt"
	"skill-match/internal/report"
	"skill-match/internal/repository"
	"skill-match/internal/usecase"
	"skill-match/internal/ws"
	"skill-match/migrations"

	"go.uber.org/zap"
)

type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Catalog *catalog.Catalog
	Cache   *cache.Redis
	Store   storage.Store
	Hub     *ws.Hub
	Tokens  *jwt.HMACService

	Publisher events.Publisher
	Analyses  *usecase.Analysis
	Roles     *usecase.Catalog

	amqp    *events.AMQPPublisher
	stopHub context.CancelFunc
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)
	c := &Container{Config: cfg, Logger: log}

	if cfg.Database.Enabled() {
		connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		db, err := dbpostgres.Connect(connCtx, cfg.Database, log.Named("pgx"))
		cancel()
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		c.DB = db

		if err := Migrate(ctx, cfg.Database, db); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("database ready", zap.String("host", cfg.Database.DBHost), zap.String("name", cfg.Database.DBName))
	} else {
		log.Info("database disabled, analyses are kept in memory")
	}

	cat, err := LoadCatalog(ctx, cfg.Catalog, c.DB)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Catalog = cat
	log.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("roles", cat.Len()),
		zap.String("version", cat.Version()),
	)

	store, err := NewStore(ctx, cfg.Storage)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Store = store

	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)

	hubCtx, stop := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(log.Named("ws"))
	c.stopHub = stop
	go c.Hub.Run(hubCtx)

	publishers := events.Multi{ws.Publisher{Hub: c.Hub}}
	if cfg.Events.AMQPURL != "" {
		p, err := events.DialAMQP(cfg.Events.AMQPURL, cfg.Events.Exchange, log.Named("amqp"))
		if err != nil {
			log.Warn("amqp unavailable, events stay local", zap.Error(err))
		} else {
			c.amqp = p
			publishers = append(publishers, p)
		}
	}
	c.Publisher = publishers

	c.Tokens = jwt.NewHMACService(cfg.Download.Secret, cfg.Download.ExpiresIn)

	var analyses repository.AnalysisRepository = repository.NewMemoryAnalysisRepository()
	if c.DB != nil {
		analyses = repository.NewPostgresAnalysisRepository(c.DB)
	}

	c.Analyses = usecase.NewAnalysisUsecase(
		cat,
		analyses,
		c.Store,
		report.NewXLSXRenderer(),
		c.Publisher,
		c.Cache,
		usecase.AnalysisOptions{
			TopRoles:       cfg.Match.TopRoles,
			UploadMaxBytes: cfg.Match.UploadMaxBytes,
			CacheTTL:       cfg.Redis.TTL,
		},
		log.Named("analysis"),
	)
	c.Roles = usecase.NewCatalogUsecase(cat)

	return c, nil
}

// LoadCatalog reads the role catalog from the configured source. The
// postgres source needs a seeded database.
func LoadCatalog(ctx context.Context, cfg config.CatalogConfig, db database.DB) (*catalog.Catalog, error) {
	switch cfg.Source {
	case config.CatalogSourcePostgres:
		if db == nil {
			return nil, errors.New("catalog source postgres requires a database")
		}
		inputs, err := repository.NewPostgresRoleRepository(db).LoadCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog from postgres: %w", err)
		}
		if len(inputs) == 0 {
			return nil, errors.New("catalog table is empty, run `matchctl seed` first")
		}
		return catalog.New(inputs)
	default:
		return catalog.LoadFile(cfg.Path)
	}
}

func NewStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		return storage.NewS3(ctx, storage.S3Options{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	default:
		return storage.NewLocal(cfg.LocalDir)
	}
}

func Migrate(ctx context.Context, cfg config.DatabaseConfig, db database.DB) error {
	r := migration.Runner{Source: migrations.FS, Dir: cfg.MigrationsDir}
	if cfg.MigrationsDir != "" {
		r.Source = nil
	}
	return r.Run(ctx, db.SQLDB())
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	var errs []error
	if c.amqp != nil {
		errs = append(errs, c.amqp.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
