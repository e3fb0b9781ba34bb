package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/config"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Logger logger.Logger
	Config *config.Config
}

const slowQuery = 200 * time.Millisecond

// newGormLogger sends gorm's SQL traces through the application slog
// handlers. Production keeps warnings and errors only.
func newGormLogger(log *slog.Logger, production bool) gormlogger.Interface {
	level := gormlogger.Info
	if production {
		level = gormlogger.Warn
	}
	return gormlogger.NewSlogLogger(log, gormlogger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      production,
	})
}

// NewGorm opens the write-side connection. Unique violations surface as
// gorm.ErrDuplicatedKey because TranslateError is on.
func NewGorm(opts Opts) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(opts.Config.Postgres.URL), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(opts.Logger.WithComponent("gorm").Slog(), opts.Config.IsProduction()),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(int(opts.Config.Postgres.MaxConns))
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	log := opts.Logger.WithComponent("db")
	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}
			log.Info("Database connection established")

			if opts.Config.App.AutoMigrate {
				if err := migrations.Up(ctx, sqlDB); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				log.Info("Database migration completed")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sqlDB.Close()
		},
	})

	return gdb, nil
}

// NewPool opens the pgx pool used by the read-side query repository.
func NewPool(opts Opts) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(opts.Config.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	if opts.Config.Postgres.MaxConns > 0 {
		cfg.MaxConns = opts.Config.Postgres.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
			opts.Logger.Info("Connected to postgres", "component", "pgx")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}
