package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/linemk/shop-bot/internal/config"
	"github.com/linemk/shop-bot/internal/events"
	"github.com/linemk/shop-bot/internal/session"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sql.DB
	Sessions  session.Store
	Publisher events.Publisher
}

// DSN собирает строку подключения к postgres
func DSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)
}

// NewApp поднимает инфраструктуру: БД, хранилище диалогов оформления и публикатор событий заказов
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sessions, err := session.NewStore(log, cfg.Session)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init session store: %w", err)
	}

	app := &App{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Sessions:  sessions,
		Publisher: newPublisher(log, cfg.Kafka),
	}

	return app, nil
}

// newPublisher: без брокеров события заказов не публикуются
func newPublisher(log *slog.Logger, cfg config.KafkaConfig) events.Publisher {
	if len(cfg.Brokers) == 0 {
		log.Info("kafka brokers not set, order events disabled")
		return events.NopPublisher{}
	}
	log.Info("publishing order events to kafka",
		slog.Any("brokers", cfg.Brokers),
		slog.String("topic", cfg.OrderTopic),
	)
	return events.NewKafkaPublisher(log, cfg.Brokers, cfg.OrderTopic)
}

// Close освобождает ресурсы в обратном порядке создания
func (a *App) Close() error {
	return errors.Join(
		a.Publisher.Close(),
		a.Sessions.Close(),
		a.DB.Close(),
	)
}
