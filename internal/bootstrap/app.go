package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsvc "yamdb-api/internal/app"
	"yamdb-api/internal/cache"
	"yamdb-api/internal/config"
	"yamdb-api/internal/mail"
	"yamdb-api/internal/platform/database"
	rabbitmqClient "yamdb-api/internal/platform/rabbitmq"
	redisClient "yamdb-api/internal/platform/redis"
	"yamdb-api/internal/worker"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	// Redis and TitleCache are nil when redis.addr is empty.
	Redis      *redis.Client
	TitleCache appsvc.TitleCache
	// MQConn and EmailWorker are only set for the queue mail transport.
	MQConn      *amqp.Connection
	EmailWorker *worker.EmailDeliveryWorker
	Mailer      mail.Sender

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logger := NewLogger(cfg.App.Env)

	app := &App{Config: cfg, Logger: logger, StartedAt: time.Now()}
	if err := app.init(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	db, err := database.New(ctx, cfg)
	if err != nil {
		return err
	}
	a.DB = db
	if err := database.Migrate(db); err != nil {
		return err
	}

	if cfg.Redis.Addr != "" {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		a.Redis = redisCli
		a.TitleCache = cache.NewTitleListCache(redisCli, time.Duration(cfg.Redis.TitleTTLSeconds)*time.Second)
	}

	switch cfg.Mail.Transport {
	case "log":
		a.Mailer = mail.NewLogSender(a.Logger)
	case "smtp":
		a.Mailer = newSMTPSender(cfg)
	case "queue":
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		a.MQConn = mqConn
		a.Mailer = rabbitmqClient.NewEmailPublisher(mqConn, cfg.RabbitMQ.EmailQueue)

		a.EmailWorker = worker.NewEmailDeliveryWorker(mqConn, newSMTPSender(cfg), cfg.RabbitMQ.EmailQueue, a.Logger)
		if err := a.EmailWorker.Start(ctx); err != nil {
			return fmt.Errorf("start email worker failed: %w", err)
		}
	}

	a.Logger.Info("bootstrap complete",
		"db_driver", cfg.Database.Driver,
		"mail_transport", cfg.Mail.Transport,
		"title_cache", a.TitleCache != nil,
	)
	return nil
}

func newSMTPSender(cfg *config.Config) *mail.SMTPSender {
	return mail.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUser, cfg.Mail.SMTPPassword)
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.EmailWorker != nil {
		a.EmailWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
