package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sea-catering/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/services/subscription"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, user *models.User, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := models.DummySubscription{
		Phone:        "081234567890",
		PlanID:       2,
		MealTypes:    []string{"breakfast", "dinner"},
		DeliveryDays: []string{"monday", "friday"},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		user           *models.User
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное оформление подписки",
			requestBody: validBody,
			user:        &models.User{UID: "uid-123", Name: "Budi", Role: models.RoleUser},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("models.DummySubscription")).
					Return(&models.Subscription{ID: 42, TotalPrice: 688000, Status: models.StatusActive}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"total_price":688000`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			user:           &models.User{UID: "uid-123", Role: models.RoleUser},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "ошибка валидации",
			requestBody: models.DummySubscription{
				Phone:  "",
				PlanID: 0,
			},
			user:           &models.User{UID: "uid-123", Role: models.RoleUser},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Phone is a required field`,
		},
		{
			name:           "отсутствует авторизация",
			requestBody:    validBody,
			user:           nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:        "тариф не найден",
			requestBody: validBody,
			user:        &models.User{UID: "uid-123", Role: models.RoleUser},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("models.DummySubscription")).
					Return(nil, subscription.ErrMealPlanNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"meal plan not found"}`,
		},
		{
			name:        "некорректный телефон",
			requestBody: validBody,
			user:        &models.User{UID: "uid-123", Role: models.RoleUser},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("models.DummySubscription")).
					Return(nil, subscription.ErrInvalidPhone)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"invalid phone number"}`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: validBody,
			user:        &models.User{UID: "uid-123", Role: models.RoleUser},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("models.DummySubscription")).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not create subscription"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			if tt.user != nil {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.user)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
