package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/shop-bot/internal/app"
	"github.com/linemk/shop-bot/internal/app/handlers"
	"github.com/linemk/shop-bot/internal/bot"
	"github.com/linemk/shop-bot/internal/checkout"
	"github.com/linemk/shop-bot/internal/config"
	"github.com/linemk/shop-bot/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/shop-bot/internal/lib/logger"
	"github.com/linemk/shop-bot/internal/lib/logger/handlers/urllog"
	"github.com/linemk/shop-bot/internal/service"
	"github.com/linemk/shop-bot/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// БД, хранилище диалогов и публикатор событий
	application, err := app.NewApp(context.Background(), log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("failed to release resources", slog.Any("error", err))
		}
	}()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	categoryRepo := storage.NewCategoryRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	catalogService := service.NewCatalogService(log, categoryRepo, productRepo, cfg.Shop.PageSize)
	cartService := service.NewCartService(log, application.DB, userRepo, productRepo, cartRepo)
	orderService := service.NewOrderService(log, application.DB, userRepo, cartRepo, orderRepo, application.Publisher)
	adminService := service.NewAdminService(log, application.DB, cfg.Shop, categoryRepo, productRepo)

	shopBot := bot.New(log, bot.Deps{
		Catalog:  catalogService,
		Cart:     cartService,
		Orders:   orderService,
		Admin:    adminService,
		Sessions: application.Sessions,
		Machine:  checkout.NewMachine(cfg.Shop.DeliveryOptions),
		Currency: bot.Currency{Symbol: cfg.Shop.CurrencySymbol, Exponent: cfg.Shop.CurrencyExponent},
	})

	router.Get("/health/live", handlers.LiveHandler())
	router.Get("/health/ready", handlers.ReadyHandler(log, application.DB))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(cfg.Gateway.Secret))
		// действия пользователей, пересылаемые чат-шлюзом
		r.Post("/api/bot/update", handlers.UpdateHandler(log, shopBot))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
