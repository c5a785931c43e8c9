package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elkisser/the-cookie-box/internal/events"
	"github.com/elkisser/the-cookie-box/internal/pkg/config"
	"github.com/elkisser/the-cookie-box/internal/session"
	"github.com/elkisser/the-cookie-box/internal/storage"
)

// App holds everything main needs to run and tear down.
type App struct {
	Sessions  *session.Manager
	Publisher events.Publisher
}

// BuildApp connects the infrastructure and registers every module on
// the router. Redis and Kafka are optional: without them carts persist
// in process memory and events go nowhere.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (*App, error) {
	db, err := connectDBWithRetry(cfg.DatabaseURL, 5, logger)
	if err != nil {
		return nil, err
	}

	var deps registryDeps
	deps.cfg = cfg
	deps.db = db
	deps.logger = logger

	if cfg.RedisAddr != "" {
		redisClient, err := connectRedisWithRetry(cfg.RedisAddr, 5, logger)
		if err != nil {
			return nil, err
		}
		deps.redis = redisClient
	} else {
		logger.Warn("REDIS_ADDR not set, carts persist in process memory only")
	}

	deps.publisher = events.Publisher(events.NoopPublisher{})
	if cfg.KafkaBroker != "" {
		kafkaWriter, err := connectKafkaWithRetry(cfg.KafkaBroker, 5, logger)
		if err != nil {
			return nil, err
		}
		deps.publisher = events.NewKafkaPublisher(kafkaWriter, logger.Named("events"))
	} else {
		logger.Warn("KAFKA_BROKER not set, mutation events disabled")
	}

	uploads, err := storage.NewService(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CloudinaryFolder,
	)
	if err != nil {
		return nil, err
	}
	deps.uploads = uploads

	sessions := registerModules(router, deps)
	go sessions.RunReaper(context.Background(), time.Hour)

	return &App{
		Sessions:  sessions,
		Publisher: deps.publisher,
	}, nil
}
