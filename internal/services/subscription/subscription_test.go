package subscription

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

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *RepoMock) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *RepoMock) PauseSubscription(ctx context.Context, id int, userUID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, id, userUID, from, to)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ResumeSubscription(ctx context.Context, id int, userUID string) (int, error) {
	args := m.Called(ctx, id, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CancelSubscription(ctx context.Context, id int, userUID string) (int, error) {
	args := m.Called(ctx, id, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveSubscription(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
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
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func testUser() *models.User {
	return &models.User{
		UID:   "uid-123",
		Name:  "Budi",
		Email: "budi@example.com",
		Role:  models.RoleUser,
	}
}

func proteinPlan() *models.MealPlan {
	return &models.MealPlan{
		ID:    2,
		Name:  "Protein Plan",
		Price: 40000,
	}
}

func TestSubscriptionService_Create(t *testing.T) {
	validReq := models.DummySubscription{
		Phone:        "081234567890",
		PlanID:       2,
		MealTypes:    []string{"breakfast", "dinner"},
		DeliveryDays: []string{"monday", "wednesday", "friday"},
		Allergies:    "peanuts",
	}

	tests := []struct {
		name       string
		req        models.DummySubscription
		setupMocks func(r *RepoMock, c *CacheMock, p *PublisherMock)
		wantErr    error
		wantTotal  int
	}{
		{
			name: "success create",
			req:  validReq,
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				r.On("GetMealPlan", mock.Anything, 2).Return(proteinPlan(), nil).Once()
				r.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					// 40000 * 2 * 3 * 4.3
					return s.TotalPrice == 1032000 &&
						s.Status == models.StatusActive &&
						s.PlanName == "Protein Plan" &&
						s.UserUID == "uid-123"
				})).Return(42, nil).Once()
				c.On("Set", "subscription:42", mock.Anything, time.Hour).Return(nil).Once()
				p.On("Publish", models.EventSubscriptionCreated, mock.Anything).Return(nil).Once()
			},
			wantTotal: 1032000,
		},
		{
			name: "invalid phone",
			req: models.DummySubscription{
				Phone:        "12345",
				PlanID:       2,
				MealTypes:    []string{"breakfast"},
				DeliveryDays: []string{"monday"},
			},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantErr:    ErrInvalidPhone,
		},
		{
			name: "unknown meal type",
			req: models.DummySubscription{
				Phone:        "081234567890",
				PlanID:       2,
				MealTypes:    []string{"brunch"},
				DeliveryDays: []string{"monday"},
			},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantErr:    ErrInvalidMealTypes,
		},
		{
			name: "duplicate delivery day",
			req: models.DummySubscription{
				Phone:        "081234567890",
				PlanID:       2,
				MealTypes:    []string{"breakfast"},
				DeliveryDays: []string{"monday", "monday"},
			},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantErr:    ErrInvalidDeliveryDays,
		},
		{
			name: "meal plan not found",
			req:  validReq,
			setupMocks: func(r *RepoMock, _ *CacheMock, _ *PublisherMock) {
				r.On("GetMealPlan", mock.Anything, 2).
					Return(nil, repository.ErrEntryNotFound).Once()
			},
			wantErr: ErrMealPlanNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			publisher := new(PublisherMock)
			tt.setupMocks(repo, cache, publisher)

			service := NewSubscriptionService(repo, cache, publisher, newNoopLogger())
			got, err := service.Create(context.Background(), testUser(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, 42, got.ID)
				assert.Equal(t, tt.wantTotal, got.TotalPrice)
				assert.Equal(t, models.StatusActive, got.Status)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Read(t *testing.T) {
	owned := &models.Subscription{
		ID:      42,
		UserUID: "uid-123",
		Status:  models.StatusActive,
	}

	tests := []struct {
		name       string
		user       *models.User
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "cache miss reads repository",
			user: testUser(),
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:42", mock.Anything).Return(false, nil).Once()
				r.On("ReadSubscription", mock.Anything, 42).Return(owned, nil).Once()
				c.On("Set", "subscription:42", owned, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "not found",
			user: testUser(),
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:42", mock.Anything).Return(false, nil).Once()
				r.On("ReadSubscription", mock.Anything, 42).
					Return(nil, repository.ErrEntryNotFound).Once()
			},
			wantErr: ErrSubscriptionNotFound,
		},
		{
			name: "foreign subscription rejected for regular user",
			user: &models.User{UID: "uid-other", Role: models.RoleUser},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:42", mock.Anything).Return(false, nil).Once()
				r.On("ReadSubscription", mock.Anything, 42).Return(owned, nil).Once()
				c.On("Set", "subscription:42", owned, time.Hour).Return(nil).Once()
			},
			wantErr: ErrNotOwner,
		},
		{
			name: "foreign subscription allowed for admin",
			user: &models.User{UID: "uid-admin", Role: models.RoleAdmin},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:42", mock.Anything).Return(false, nil).Once()
				r.On("ReadSubscription", mock.Anything, 42).Return(owned, nil).Once()
				c.On("Set", "subscription:42", owned, time.Hour).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			service := NewSubscriptionService(repo, cache, new(PublisherMock), newNoopLogger())
			got, err := service.Read(context.Background(), tt.user, 42)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 42, got.ID)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_List(t *testing.T) {
	entries := []*models.Subscription{{ID: 1}, {ID: 2}}

	t.Run("regular user sees own subscriptions", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListSubscriptions", mock.Anything, "uid-123", 10, 0).Return(entries, nil).Once()

		service := NewSubscriptionService(repo, new(CacheMock), new(PublisherMock), newNoopLogger())
		got, err := service.List(context.Background(), testUser(), 10, 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})

	t.Run("admin sees all subscriptions", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListAllSubscriptions", mock.Anything, 10, 0).Return(entries, nil).Once()

		admin := &models.User{UID: "uid-admin", Role: models.RoleAdmin}
		service := NewSubscriptionService(repo, new(CacheMock), new(PublisherMock), newNoopLogger())
		got, err := service.List(context.Background(), admin, 10, 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})
}

func TestSubscriptionService_Pause(t *testing.T) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	nextWeek := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	activeSub := func() *models.Subscription {
		return &models.Subscription{ID: 42, UserUID: "uid-123", Status: models.StatusActive}
	}

	tests := []struct {
		name       string
		req        models.DummyPauseRange
		setupMocks func(r *RepoMock, c *CacheMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name: "success pause",
			req:  models.DummyPauseRange{PausedFrom: tomorrow, PausedTo: nextWeek},
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				r.On("ReadSubscription", mock.Anything, 42).Return(activeSub(), nil).Once()
				r.On("PauseSubscription", mock.Anything, 42, "uid-123", mock.Anything, mock.Anything).
					Return(1, nil).Once()
				c.On("Invalidate", "subscription:42").Return(nil).Once()
				p.On("Publish", models.EventSubscriptionPaused, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:       "malformed date",
			req:        models.DummyPauseRange{PausedFrom: "01-09-2026", PausedTo: nextWeek},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantErr:    ErrInvalidPauseRange,
		},
		{
			name:       "start date in the past",
			req:        models.DummyPauseRange{PausedFrom: yesterday, PausedTo: nextWeek},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantErr:    ErrInvalidPauseRange,
		},
		{
			name:       "end before start",
			req:        models.DummyPauseRange{PausedFrom: nextWeek, PausedTo: tomorrow},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantErr:    ErrInvalidPauseRange,
		},
		{
			name: "pause cancelled subscription",
			req:  models.DummyPauseRange{PausedFrom: tomorrow, PausedTo: nextWeek},
			setupMocks: func(r *RepoMock, _ *CacheMock, _ *PublisherMock) {
				r.On("ReadSubscription", mock.Anything, 42).
					Return(&models.Subscription{ID: 42, UserUID: "uid-123", Status: models.StatusCancelled}, nil).Once()
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "status changed concurrently",
			req:  models.DummyPauseRange{PausedFrom: tomorrow, PausedTo: nextWeek},
			setupMocks: func(r *RepoMock, _ *CacheMock, _ *PublisherMock) {
				r.On("ReadSubscription", mock.Anything, 42).Return(activeSub(), nil).Once()
				r.On("PauseSubscription", mock.Anything, 42, "uid-123", mock.Anything, mock.Anything).
					Return(0, nil).Once()
			},
			wantErr: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			publisher := new(PublisherMock)
			tt.setupMocks(repo, cache, publisher)

			service := NewSubscriptionService(repo, cache, publisher, newNoopLogger())
			got, err := service.Pause(context.Background(), testUser(), 42, tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.StatusPaused, got.Status)
				require.NotNil(t, got.PausedFrom)
				require.NotNil(t, got.PausedTo)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Resume(t *testing.T) {
	pausedFrom := time.Now().UTC().AddDate(0, 0, 1)
	pausedTo := time.Now().UTC().AddDate(0, 0, 7)
	pausedSub := func() *models.Subscription {
		return &models.Subscription{
			ID:         42,
			UserUID:    "uid-123",
			Status:     models.StatusPaused,
			PausedFrom: &pausedFrom,
			PausedTo:   &pausedTo,
		}
	}

	t.Run("success resume", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		publisher := new(PublisherMock)
		repo.On("ReadSubscription", mock.Anything, 42).Return(pausedSub(), nil).Once()
		repo.On("ResumeSubscription", mock.Anything, 42, "uid-123").Return(1, nil).Once()
		cache.On("Invalidate", "subscription:42").Return(nil).Once()
		publisher.On("Publish", models.EventSubscriptionResumed, mock.Anything).Return(nil).Once()

		service := NewSubscriptionService(repo, cache, publisher, newNoopLogger())
		got, err := service.Resume(context.Background(), testUser(), 42)
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, got.Status)
		assert.Nil(t, got.PausedFrom)
		assert.Nil(t, got.PausedTo)
		repo.AssertExpectations(t)
	})

	t.Run("resume active subscription rejected", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadSubscription", mock.Anything, 42).
			Return(&models.Subscription{ID: 42, UserUID: "uid-123", Status: models.StatusActive}, nil).Once()

		service := NewSubscriptionService(repo, new(CacheMock), new(PublisherMock), newNoopLogger())
		_, err := service.Resume(context.Background(), testUser(), 42)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr error
	}{
		{name: "cancel active", status: models.StatusActive},
		{name: "cancel paused", status: models.StatusPaused},
		{name: "cancel cancelled rejected", status: models.StatusCancelled, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			publisher := new(PublisherMock)
			repo.On("ReadSubscription", mock.Anything, 42).
				Return(&models.Subscription{ID: 42, UserUID: "uid-123", Status: tt.status}, nil).Once()
			if tt.wantErr == nil {
				repo.On("CancelSubscription", mock.Anything, 42, "uid-123").Return(1, nil).Once()
				cache.On("Invalidate", "subscription:42").Return(nil).Once()
				publisher.On("Publish", models.EventSubscriptionCancelled, mock.Anything).Return(nil).Once()
			}

			service := NewSubscriptionService(repo, cache, publisher, newNoopLogger())
			got, err := service.Cancel(context.Background(), testUser(), 42)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.StatusCancelled, got.Status)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Remove(t *testing.T) {
	t.Run("success remove", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Invalidate", "subscription:42").Return(nil).Once()
		repo.On("RemoveSubscription", mock.Anything, 42).Return(1, nil).Once()

		service := NewSubscriptionService(repo, cache, new(PublisherMock), newNoopLogger())
		require.NoError(t, service.Remove(context.Background(), 42))
		repo.AssertExpectations(t)
	})

	t.Run("missing subscription", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Invalidate", "subscription:42").Return(nil).Once()
		repo.On("RemoveSubscription", mock.Anything, 42).Return(0, nil).Once()

		service := NewSubscriptionService(repo, cache, new(PublisherMock), newNoopLogger())
		err := service.Remove(context.Background(), 42)
		require.ErrorIs(t, err, ErrSubscriptionNotFound)
	})
}
