// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fitchef/fitchef/internal/application/billing"
	"github.com/fitchef/fitchef/internal/application/generation"
	"github.com/fitchef/fitchef/internal/infrastructure/ai/gemini"
	"github.com/fitchef/fitchef/internal/infrastructure/config"
	"github.com/fitchef/fitchef/internal/infrastructure/http/apiserver"
	"github.com/fitchef/fitchef/internal/infrastructure/http/handlers"
	gormRepo "github.com/fitchef/fitchef/internal/infrastructure/persistence/gorm"
	"github.com/fitchef/fitchef/internal/infrastructure/persistence/sqlite"
	"github.com/fitchef/fitchef/internal/infrastructure/security"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/fitchef/fitchef/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RedisModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DirectoryDB wraps the store connection used by the privileged account
// directory. With an admin DSN configured it is a separate connection under
// elevated credentials; otherwise it falls back to the primary connection.
type DirectoryDB struct {
	DB *gorm.DB
}

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		return openDatabase(cfg, log)
	},

	func(cfg *config.Config, log *zap.Logger, db *gorm.DB) (*DirectoryDB, error) {
		if cfg.Billing.AdminDSN == "" {
			log.Info("no admin DSN configured, account directory uses the primary connection")
			return &DirectoryDB{DB: db}, nil
		}

		adminDB, err := gorm.Open(postgres.Open(cfg.Billing.AdminDSN), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open admin database connection: %w", err)
		}

		log.Info("account directory connected with elevated credentials")
		return &DirectoryDB{DB: adminDB}, nil
	},
)

// openDatabase connects per the configured driver: postgres in production,
// sqlite for development and tests.
func openDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := gormLogger.Silent
	if cfg.App.Debug {
		logLevel = gormLogger.Info
	}

	if cfg.Database.Driver == "postgres" {
		db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
			Logger: gormLogger.Default.LogMode(logLevel),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		// The schema is shared across drivers.
		if err := sqlite.Migrate(db); err != nil {
			return nil, err
		}

		log.Info("Connected to PostgreSQL database",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
		return db, nil
	}

	dbPath := ":memory:"
	if cfg.Database.Database != "" {
		dbPath = cfg.Database.Database + ".db"
	}

	db, err := sqlite.SetupDatabase(dbPath, logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
	}

	log.Info("Connected to SQLite database",
		zap.String("path", dbPath),
		zap.Bool("in_memory", dbPath == ":memory:"),
	)
	return db, nil
}

// RedisModule provides the optional Redis client used for token revocation.
var RedisModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *redis.Client {
		if cfg.Redis.Host == "" {
			log.Info("redis not configured, logout falls back to token expiry")
			return nil
		}
		return redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewAccountRepository,
	gormRepo.NewUsageRepository,
	gormRepo.NewHistoryRepository,

	func(ddb *DirectoryDB) outbound.AccountDirectory {
		return gormRepo.NewAccountDirectory(ddb.DB)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	security.NewAuthService,

	func(cfg *config.Config, log *zap.Logger) outbound.RecipeGenerator {
		return gemini.NewClient(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.GeminiKey, cfg.AI.Timeout, log)
	},

	generation.NewService,
	billing.NewService,
)

// HTTPModule provides the HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewAPIHandlers,
	apiserver.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting FitChef application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down FitChef application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
