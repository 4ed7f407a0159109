// Package testimonial содержит бизнес-логику отзывов покупателей.
package testimonial

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/sea-catering/internal/lib/validation"
	"github.com/magabrotheeeer/sea-catering/internal/models"
)

// ErrEmptyAfterSanitize возвращается, когда после очистки разметки от имени или текста ничего не осталось.
var ErrEmptyAfterSanitize = errors.New("testimonial fields are empty after sanitization")

// TestimonialRepository определяет методы для работы с отзывами в хранилище.
type TestimonialRepository interface {
	// CreateTestimonial вставляет новый отзыв и возвращает его ID.
	CreateTestimonial(ctx context.Context, t models.Testimonial) (int, error)
	// ListTestimonials возвращает отзывы от новых к старым с пагинацией.
	ListTestimonials(ctx context.Context, limit, offset int) ([]*models.Testimonial, error)
}

// TestimonialService реализует бизнес-логику отзывов.
type TestimonialService struct {
	repo TestimonialRepository
	log  *slog.Logger
}

// NewTestimonialService создает новый экземпляр TestimonialService.
func NewTestimonialService(repo TestimonialRepository, log *slog.Logger) *TestimonialService {
	return &TestimonialService{
		repo: repo,
		log:  log,
	}
}

// Create очищает имя и текст отзыва от HTML-разметки и сохраняет отзыв.
func (s *TestimonialService) Create(ctx context.Context, req models.DummyTestimonial) (*models.Testimonial, error) {
	t := models.Testimonial{
		Name:    validation.Sanitize(req.Name),
		Message: validation.Sanitize(req.Message),
		Rating:  req.Rating,
	}
	if t.Name == "" || t.Message == "" {
		return nil, ErrEmptyAfterSanitize
	}

	id, err := s.repo.CreateTestimonial(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	s.log.Info("created new testimonial", slog.Int("id", id))
	return &t, nil
}

// List возвращает отзывы от новых к старым с пагинацией.
func (s *TestimonialService) List(ctx context.Context, limit, offset int) ([]*models.Testimonial, error) {
	return s.repo.ListTestimonials(ctx, limit, offset)
}
