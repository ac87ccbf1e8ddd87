package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appsvc "feedgraph/internal/app"
	"feedgraph/internal/cache"
	"feedgraph/internal/config"
	"feedgraph/internal/pkg/logger"
	"feedgraph/internal/platform/database"
	rabbitmqClient "feedgraph/internal/platform/rabbitmq"
	redisClient "feedgraph/internal/platform/redis"
	"feedgraph/internal/repository"
	"feedgraph/internal/worker"
)

// App owns the process-wide connections. Redis and RabbitMQ are optional:
// their fields stay nil when the config leaves them empty.
type App struct {
	Config             *config.Config
	DB                 *gorm.DB
	Redis              *redis.Client
	MQConn             *amqp.Connection
	Denylist           *cache.TokenDenylist
	Publisher          *rabbitmqClient.EventPublisher
	NotificationWorker *worker.NotificationWorker

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, StartedAt: time.Now()}

	db, err := database.Open(ctx, database.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.DSN(),
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		LogLevel:     cfg.Database.LogLevel,
	})
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := database.Migrate(db); err != nil {
		_ = a.Close()
		return nil, err
	}
	logger.Info("database ready", zap.String("driver", cfg.Database.Driver))

	if cfg.Redis.Addr != "" {
		redisCli, err := redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = redisCli
		a.Denylist = cache.NewTokenDenylist(redisCli)
		logger.Info("redis ready, token revocation enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		logger.Warn("redis not configured, logout is unavailable")
	}

	if cfg.RabbitMQ.URL != "" {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = mqConn
		a.Publisher = rabbitmqClient.NewEventPublisher(mqConn, cfg.RabbitMQ.FeedEventQueue)

		notifications := appsvc.NewNotificationService(repository.NewNotificationRepository(db))
		a.NotificationWorker = worker.NewNotificationWorker(mqConn, notifications, cfg.RabbitMQ.FeedEventQueue)
		if err := a.NotificationWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start notification worker failed: %w", err)
		}
	} else {
		logger.Warn("rabbitmq not configured, feed events are disabled")
	}

	return a, nil
}

// EventPublisher returns the publisher as the service interface, nil when
// events are disabled.
func (a *App) EventPublisher() appsvc.EventPublisher {
	if a.Publisher == nil {
		return nil
	}
	return a.Publisher
}

// TokenRevoker returns the denylist as the service interface, nil when redis
// is not configured.
func (a *App) TokenRevoker() appsvc.TokenRevoker {
	if a.Denylist == nil {
		return nil
	}
	return a.Denylist
}

func (a *App) Close() error {
	var errs []error
	if a.NotificationWorker != nil {
		a.NotificationWorker.Close()
	}
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		errs = append(errs, a.MQConn.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	return errors.Join(errs...)
}
