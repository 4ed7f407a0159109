package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/sea-catering/internal/models"
)

// CreateTestimonial вставляет новый отзыв и возвращает его ID.
func (s *Storage) CreateTestimonial(ctx context.Context, t models.Testimonial) (int, error) {
	const op = "storage.CreateTestimonial"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO testimonials (name, message, rating)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, t.Name, t.Message, t.Rating).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListTestimonials возвращает отзывы от новых к старым с пагинацией.
func (s *Storage) ListTestimonials(ctx context.Context, limit, offset int) ([]*models.Testimonial, error) {
	const op = "storage.ListTestimonials"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, message, rating, created_at
			  FROM testimonials
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Testimonial
	for rows.Next() {
		var item models.Testimonial
		if err := rows.Scan(&item.ID, &item.Name, &item.Message, &item.Rating,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
