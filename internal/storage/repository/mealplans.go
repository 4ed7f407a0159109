package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/sea-catering/internal/models"
)

// ListMealPlans возвращает весь каталог тарифов.
func (s *Storage) ListMealPlans(ctx context.Context) ([]*models.MealPlan, error) {
	const op = "storage.ListMealPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, description, features, image_url
			  FROM meal_plans
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MealPlan
	for rows.Next() {
		var item models.MealPlan
		var features []byte
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Description,
			&features, &item.ImageURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(features, &item.Features); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetMealPlan возвращает тариф по его ID или ErrEntryNotFound.
func (s *Storage) GetMealPlan(ctx context.Context, id int) (*models.MealPlan, error) {
	const op = "storage.GetMealPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, description, features, image_url
			  FROM meal_plans
			  WHERE id = $1`
	var item models.MealPlan
	var features []byte
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&item.ID, &item.Name, &item.Price, &item.Description,
		&features, &item.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrEntryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(features, &item.Features); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}
