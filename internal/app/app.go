package app

import (
	"context"
	"database/sql"
	"fmt"

	"hr-lite/internal/bootstrap"
	"hr-lite/internal/config"
	"hr-lite/internal/employee"
	"hr-lite/internal/media"
	"hr-lite/internal/shared/connection"
	"hr-lite/internal/shared/database"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const redisConnectRetries = 3

// App holds the infrastructure opened by BuildApp.
type App struct {
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
	Kafka  *kafkago.Writer
}

// BuildApp connects to the backing services and mounts every route on router.
// Redis and Kafka are optional; a configured Redis that cannot be reached is
// logged and skipped.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (*App, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	a := &App{GormDB: gormDB, DB: sqlDB}

	if cfg.Redis.Addr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, redisConnectRetries, logger)
		if err != nil {
			logger.Warn("redis unavailable, idempotency keys disabled", zap.Error(err))
		} else {
			a.Redis = rdb
		}
	}

	var publisher employee.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		a.Kafka = connection.NewKafkaWriter(cfg.Kafka, logger)
		publisher = employee.NewKafkaEventPublisher(a.Kafka, cfg.Kafka.Topic)
		logger.Info("employee events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	registerModules(router, Dependencies{
		GormDB:         gormDB,
		DB:             sqlDB,
		Redis:          a.Redis,
		Store:          media.NewLocalStore(cfg.Media.Root, cfg.Media.URLPrefix, logger),
		Publisher:      publisher,
		Media:          cfg.Media,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Logger:         logger,
	})

	return a, nil
}

// ShutdownHooks closes what BuildApp opened, producers first.
func (a *App) ShutdownHooks() []bootstrap.ShutdownHook {
	var hooks []bootstrap.ShutdownHook
	if a.Kafka != nil {
		hooks = append(hooks, func(context.Context) error { return a.Kafka.Close() })
	}
	if a.Redis != nil {
		hooks = append(hooks, func(context.Context) error { return a.Redis.Close() })
	}
	hooks = append(hooks, func(context.Context) error { return a.DB.Close() })
	return hooks
}
