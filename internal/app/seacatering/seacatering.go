package seacatering

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/sea-catering/internal/cache"
	"github.com/magabrotheeeer/sea-catering/internal/config"
	"github.com/magabrotheeeer/sea-catering/internal/lib/jwt"
	"github.com/magabrotheeeer/sea-catering/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/sea-catering/internal/migrations"
	authservice "github.com/magabrotheeeer/sea-catering/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/sea-catering/internal/services/catalog"
	metricsservice "github.com/magabrotheeeer/sea-catering/internal/services/metrics"
	subservice "github.com/magabrotheeeer/sea-catering/internal/services/subscription"
	testimonialservice "github.com/magabrotheeeer/sea-catering/internal/services/testimonial"
	"github.com/magabrotheeeer/sea-catering/internal/storage/repository"
)

// App хранит зависимости HTTP-приложения и управляет его запуском и остановкой.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует все зависимости приложения: базу данных с миграциями,
// Redis, RabbitMQ, бизнес-сервисы и маршрутизатор.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, cacheRedis, logger)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	testimonialService := testimonialservice.NewTestimonialService(db, logger)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, publisher, logger)
	metricsService := metricsservice.NewMetricsService(db, logger)

	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("admin seed is not configured, skipping admin bootstrap")
	}

	router := chi.NewRouter()

	RegisterRoutes(router, logger, db,
		authService, catalogService, testimonialService, subscriptionService, metricsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста
// либо до ошибки сервера. При отмене выполняет graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
