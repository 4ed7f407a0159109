package repository

import (
	"context"
	"fmt"
	"time"
)

// CountSubscriptionsCreated подсчитывает подписки, созданные в периоде.
//
// Обе границы опциональны: nil отключает соответствующее условие.
// Нижняя граница включительна, верхняя передаётся уже эксклюзивной
// (слой бизнес-логики добавляет сутки к включительной дате конца периода).
func (s *Storage) CountSubscriptionsCreated(ctx context.Context, from, to *time.Time) (int, error) {
	const op = "storage.CountSubscriptionsCreated"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM subscriptions
			  WHERE ($1::timestamptz IS NULL OR created_at >= $1)
			    AND ($2::timestamptz IS NULL OR created_at < $2)`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountActiveSubscriptions подсчитывает все подписки со статусом active.
func (s *Storage) CountActiveSubscriptions(ctx context.Context) (int, error) {
	const op = "storage.CountActiveSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM subscriptions WHERE status = 'active'`
	var count int
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// SumActiveSubscriptions возвращает сумму total_price по всем активным подпискам (MRR).
func (s *Storage) SumActiveSubscriptions(ctx context.Context) (int, error) {
	const op = "storage.SumActiveSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(total_price), 0) FROM subscriptions WHERE status = 'active'`
	var sum int
	if err := s.DB.QueryRowContext(ctx, query).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}
