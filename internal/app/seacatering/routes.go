// Package seacatering предоставляет маршруты для основного приложения.
package seacatering

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminmetrics "github.com/magabrotheeeer/sea-catering/internal/http/handlers/admin/metrics"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/health"
	mealplanlist "github.com/magabrotheeeer/sea-catering/internal/http/handlers/mealplan/list"
	mealplanread "github.com/magabrotheeeer/sea-catering/internal/http/handlers/mealplan/read"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/subscription/pause"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/sea-catering/internal/http/handlers/subscription/resume"
	testimonialcreate "github.com/magabrotheeeer/sea-catering/internal/http/handlers/testimonial/create"
	testimoniallist "github.com/magabrotheeeer/sea-catering/internal/http/handlers/testimonial/list"
	"github.com/magabrotheeeer/sea-catering/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/sea-catering/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/sea-catering/internal/services/catalog"
	metricsservice "github.com/magabrotheeeer/sea-catering/internal/services/metrics"
	subservice "github.com/magabrotheeeer/sea-catering/internal/services/subscription"
	testimonialservice "github.com/magabrotheeeer/sea-catering/internal/services/testimonial"
	"github.com/magabrotheeeer/sea-catering/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService,
	catalogService *catalogservice.CatalogService,
	testimonialService *testimonialservice.TestimonialService,
	subscriptionService *subservice.SubscriptionService,
	metricsService *metricsservice.MetricsService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/meal-plans", mealplanlist.New(logger, catalogService).ServeHTTP)
		r.Get("/meal-plans/{id}", mealplanread.New(logger, catalogService).ServeHTTP)
		r.Get("/testimonials", testimoniallist.New(logger, testimonialService).ServeHTTP)
		r.Post("/testimonials", testimonialcreate.New(logger, testimonialService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/auth/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/list", list.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{id}/pause", pause.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{id}/resume", resume.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{id}/cancel", cancel.New(logger, subscriptionService).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Delete("/admin/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
				r.Get("/admin/metrics", adminmetrics.New(logger, metricsService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
