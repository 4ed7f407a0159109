package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListMealPlans(ctx context.Context) ([]*models.MealPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MealPlan), args.Error(1)
}
func (m *RepoMock) GetMealPlan(ctx context.Context, id int) (*models.MealPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlan), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCatalogService_List(t *testing.T) {
	plans := []*models.MealPlan{
		{ID: 1, Name: "Diet Plan", Price: 30000},
		{ID: 2, Name: "Protein Plan", Price: 40000},
		{ID: 3, Name: "Royal Plan", Price: 60000},
	}

	t.Run("cache miss reads repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "mealplans:all", mock.Anything).Return(false, nil).Once()
		repo.On("ListMealPlans", mock.Anything).Return(plans, nil).Once()
		cache.On("Set", "mealplans:all", plans, time.Hour).Return(nil).Once()

		service := NewCatalogService(repo, cache, newNoopLogger())
		got, err := service.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 3)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error falls through to repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "mealplans:all", mock.Anything).Return(false, assert.AnError).Once()
		repo.On("ListMealPlans", mock.Anything).Return(plans, nil).Once()
		cache.On("Set", "mealplans:all", plans, time.Hour).Return(nil).Once()

		service := NewCatalogService(repo, cache, newNoopLogger())
		got, err := service.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestCatalogService_Get(t *testing.T) {
	t.Run("success get", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "mealplan:2", mock.Anything).Return(false, nil).Once()
		repo.On("GetMealPlan", mock.Anything, 2).
			Return(&models.MealPlan{ID: 2, Name: "Protein Plan", Price: 40000}, nil).Once()
		cache.On("Set", "mealplan:2", mock.Anything, time.Hour).Return(nil).Once()

		service := NewCatalogService(repo, cache, newNoopLogger())
		got, err := service.Get(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, "Protein Plan", got.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "mealplan:999", mock.Anything).Return(false, nil).Once()
		repo.On("GetMealPlan", mock.Anything, 999).
			Return(nil, repository.ErrEntryNotFound).Once()

		service := NewCatalogService(repo, cache, newNoopLogger())
		_, err := service.Get(context.Background(), 999)
		require.ErrorIs(t, err, ErrMealPlanNotFound)
	})
}
