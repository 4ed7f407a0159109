// Package catalog содержит бизнес-логику каталога тарифов питания.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/storage/repository"
)

// ErrMealPlanNotFound возвращается, когда тариф с заданным ID отсутствует в каталоге.
var ErrMealPlanNotFound = errors.New("meal plan not found")

const listCacheKey = "mealplans:all"

// MealPlanRepository определяет методы для чтения каталога из хранилища.
type MealPlanRepository interface {
	// ListMealPlans возвращает весь каталог тарифов.
	ListMealPlans(ctx context.Context) ([]*models.MealPlan, error)
	// GetMealPlan возвращает тариф по ID.
	GetMealPlan(ctx context.Context, id int) (*models.MealPlan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// CatalogService отдаёт каталог тарифов, кешируя редко меняющийся список.
type CatalogService struct {
	repo  MealPlanRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo MealPlanRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает весь каталог тарифов, используя кеш или репозиторий.
func (s *CatalogService) List(ctx context.Context) ([]*models.MealPlan, error) {
	var result []*models.MealPlan
	found, err := s.cache.Get(listCacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", listCacheKey), slog.Any("err", err))
		found = false
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListMealPlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(listCacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", listCacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Get возвращает тариф по его ID.
func (s *CatalogService) Get(ctx context.Context, id int) (*models.MealPlan, error) {
	var result *models.MealPlan
	key := fmt.Sprintf("mealplan:%d", id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), slog.Any("err", err))
		found = false
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetMealPlan(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrMealPlanNotFound
		}
		return nil, err
	}
	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}
