// Package metrics реализует HTTP-обработчик агрегатов административного дашборда.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sea-catering/internal/http/response"
	"github.com/magabrotheeeer/sea-catering/internal/lib/sl"
	"github.com/magabrotheeeer/sea-catering/internal/models"
	metricssvc "github.com/magabrotheeeer/sea-catering/internal/services/metrics"
)

// Service описывает интерфейс бизнес-логики метрик дашборда.
type Service interface {
	Summary(ctx context.Context, fromStr, toStr string) (*models.DashboardMetrics, error)
}

// Handler управляет HTTP-запросами на получение метрик дашборда.
// Маршрут закрыт middleware, пропускающим только администраторов.
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
// @Summary Метрики дашборда
// @Description Возвращает агрегаты подписок. Период (from/to, формат 2006-01-02) фильтрует только счётчик новых подписок.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param from query string false "Начало периода (включительно)"
// @Param to query string false "Конец периода (включительно)"
// @Success 200 {object} response.Response "Метрики"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 422 {object} response.ErrorResponse "Некорректный период"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/metrics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.metrics"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	res, err := h.service.Summary(r.Context(), fromStr, toStr)
	if err != nil {
		if errors.Is(err, metricssvc.ErrInvalidDateRange) {
			log.Error("invalid date range", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to compute metrics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute metrics"))
		return
	}

	log.Info("computed dashboard metrics")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"metrics": res,
	}))
}
