// Package create реализует HTTP-обработчик для отправки нового отзыва.
//
// Handler принимает JSON с именем, текстом и оценкой, валидирует их,
// вызывает бизнес-логику (включая очистку HTML-разметки) и возвращает созданный отзыв.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sea-catering/internal/http/response"
	"github.com/magabrotheeeer/sea-catering/internal/lib/sl"
	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/services/testimonial"
)

// Service описывает интерфейс бизнес-логики отзывов.
type Service interface {
	Create(ctx context.Context, req models.DummyTestimonial) (*models.Testimonial, error)
}

// Handler управляет HTTP-запросами на создание отзывов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оставить отзыв
// @Description Создает новый отзыв покупателя. HTML-разметка вырезается.
// @Tags Testimonials
// @Accept  json
// @Produce  json
// @Param request body models.DummyTestimonial true "Данные отзыва"
// @Success 201 {object} response.Response "Отзыв создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /testimonials [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.testimonial.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTestimonial
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, testimonial.ErrEmptyAfterSanitize) {
			log.Error("testimonial empty after sanitization", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("name and message must contain text"))
			return
		}
		log.Error("failed to create testimonial", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create testimonial"))
		return
	}

	log.Info("created testimonial", slog.Int("id", res.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"testimonial": res,
	}))
}
