package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/elkisser/the-cookie-box/internal/cart"
	"github.com/elkisser/the-cookie-box/internal/events"
	"github.com/elkisser/the-cookie-box/internal/pkg/config"
	"github.com/elkisser/the-cookie-box/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(logger.Options{
		Service: "the-cookie-box-consumer",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   "storefront.events",
		GroupID: "cart-sweeper-group",
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Info("consumer started")
	consume(ctx, reader, cart.NewSweeper(rdb, zlog), zlog)
	zlog.Info("consumer stopped")
}

func consume(ctx context.Context, reader *kafka.Reader, sweeper *cart.Sweeper, zlog *zap.Logger) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zlog.Error("fetch message failed", zap.Error(err))
			continue
		}

		if eventType(msg.Headers) == events.TypeProductDeleted {
			swept, err := sweeper.RemoveProduct(ctx, string(msg.Key))
			if err != nil {
				zlog.Error("product sweep failed",
					zap.String("product_id", string(msg.Key)),
					zap.Error(err),
				)
				continue
			}
			zlog.Info("swept deleted product from carts",
				zap.String("product_id", string(msg.Key)),
				zap.Int("carts_changed", swept),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			zlog.Error("commit message failed", zap.Error(err))
		}
	}
}

func eventType(headers []kafka.Header) string {
	for _, h := range headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
