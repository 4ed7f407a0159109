// Package health реализует HTTP-обработчик проверки работоспособности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sea-catering/internal/http/response"
	"github.com/magabrotheeeer/sea-catering/internal/lib/sl"
)

// Pinger описывает проверку готовности хранилища.
type Pinger interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler отвечает на запросы проверки здоровья сервиса.
type Handler struct {
	log    *slog.Logger
	pinger Pinger
}

// New создает новый Handler с переданными логгером и проверкой хранилища.
func New(log *slog.Logger, pinger Pinger) *Handler {
	return &Handler{
		log:    log,
		pinger: pinger,
	}
}

// ServeHTTP godoc
// @Summary Проверка здоровья
// @Description Возвращает статус сервиса и доступность базы данных.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Сервис работает"
// @Failure 503 {object} response.ErrorResponse "База данных недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.pinger.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
