// Package read реализует HTTP-обработчик для получения тарифа по его ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sea-catering/internal/http/response"
	"github.com/magabrotheeeer/sea-catering/internal/lib/sl"
	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/services/catalog"
)

// Service описывает интерфейс бизнес-логики чтения тарифа.
type Service interface {
	Get(ctx context.Context, id int) (*models.MealPlan, error)
}

// Handler обрабатывает запросы на получение тарифа по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить тариф по ID
// @Description Возвращает один тариф питания по его идентификатору.
// @Tags MealPlans
// @Produce  json
// @Param id path int true "ID тарифа"
// @Success 200 {object} response.Response "Данные тарифа"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Тариф не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /meal-plans/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mealplan.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrMealPlanNotFound) {
			log.Error("meal plan not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("meal plan not found"))
			return
		}
		log.Error("failed to read meal plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read meal plan"))
		return
	}

	log.Info("read meal plan", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"meal_plan": res,
	}))
}
