// Package metrics содержит бизнес-логику агрегатов административного дашборда.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/sea-catering/internal/models"
)

// ErrInvalidDateRange возвращается при некорректных границах периода.
var ErrInvalidDateRange = errors.New("invalid date range")

// MetricsRepository определяет агрегирующие запросы к хранилищу подписок.
type MetricsRepository interface {
	// CountSubscriptionsCreated подсчитывает подписки, созданные в периоде.
	// Верхняя граница эксклюзивна, nil отключает условие.
	CountSubscriptionsCreated(ctx context.Context, from, to *time.Time) (int, error)
	// CountActiveSubscriptions подсчитывает все активные подписки.
	CountActiveSubscriptions(ctx context.Context) (int, error)
	// SumActiveSubscriptions возвращает сумму total_price по активным подпискам.
	SumActiveSubscriptions(ctx context.Context) (int, error)
}

// MetricsService считает агрегаты дашборда администратора.
type MetricsService struct {
	repo MetricsRepository
	log  *slog.Logger
}

// NewMetricsService создает новый экземпляр MetricsService.
func NewMetricsService(repo MetricsRepository, log *slog.Logger) *MetricsService {
	return &MetricsService{
		repo: repo,
		log:  log,
	}
}

// parseFilter разбирает опциональные границы периода в формате 2006-01-02.
// Конец периода включителен: к нему добавляются сутки, и запрос сравнивает строго меньше.
func parseFilter(fromStr, toStr string) (models.MetricsFilter, error) {
	var filter models.MetricsFilter

	if fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid start date", ErrInvalidDateRange)
		}
		filter.From = &from
	}
	if toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid end date", ErrInvalidDateRange)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, fmt.Errorf("%w: end date must not be earlier than start date", ErrInvalidDateRange)
	}
	return filter, nil
}

// Summary возвращает агрегаты дашборда. Период фильтрует только счётчик новых подписок;
// MRR и количество активных считаются по всей базе.
func (s *MetricsService) Summary(ctx context.Context, fromStr, toStr string) (*models.DashboardMetrics, error) {
	filter, err := parseFilter(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	var toExclusive *time.Time
	if filter.To != nil {
		next := filter.To.AddDate(0, 0, 1)
		toExclusive = &next
	}

	newSubscriptions, err := s.repo.CountSubscriptionsCreated(ctx, filter.From, toExclusive)
	if err != nil {
		return nil, err
	}
	mrr, err := s.repo.SumActiveSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	totalActive, err := s.repo.CountActiveSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.DashboardMetrics{
		NewSubscriptions:         newSubscriptions,
		MonthlyRecurringRevenue:  mrr,
		ReactivationsEstimate:    int(math.Floor(float64(newSubscriptions) * 0.1)),
		SubscriptionGrowth:       totalActive,
		TotalActiveSubscriptions: totalActive,
	}
	s.log.Info("computed dashboard metrics",
		slog.Int("new_subscriptions", newSubscriptions),
		slog.Int("total_active", totalActive))
	return result, nil
}
