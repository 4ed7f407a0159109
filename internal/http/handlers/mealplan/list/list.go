// Package list реализует HTTP-обработчик каталога тарифов питания.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sea-catering/internal/http/response"
	"github.com/magabrotheeeer/sea-catering/internal/lib/sl"
	"github.com/magabrotheeeer/sea-catering/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context) ([]*models.MealPlan, error)
}

// Handler управляет HTTP-запросами на получение каталога тарифов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить каталог тарифов
// @Description Возвращает все тарифы питания с ценами за блюдо и описаниями.
// @Tags MealPlans
// @Produce  json
// @Success 200 {object} response.Response "Каталог тарифов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /meal-plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mealplan.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list meal plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list meal plans"))
		return
	}

	log.Info("listed meal plans", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"meal_plans": res,
	}))
}
