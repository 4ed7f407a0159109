package pause

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

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sea-catering/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/services/subscription"
)

// MockService реализует интерфейс pause.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Pause(ctx context.Context, user *models.User, id int, req models.DummyPauseRange) (*models.Subscription, error) {
	args := m.Called(ctx, user, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func TestPauseHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	owner := &models.User{UID: "uid-123", Name: "Budi", Role: models.RoleUser}
	validBody := models.DummyPauseRange{
		PausedFrom: "2026-09-01",
		PausedTo:   "2026-09-07",
	}

	tests := []struct {
		name           string
		url            string
		requestBody    interface{}
		user           *models.User
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная приостановка",
			url:         "/subscriptions/42/pause",
			requestBody: validBody,
			user:        owner,
			setupMock: func(m *MockService) {
				m.On("Pause", mock.Anything, owner, 42, validBody).
					Return(&models.Subscription{ID: 42, Status: models.StatusPaused}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"paused"`,
		},
		{
			name:           "некорректный ID в URL",
			url:            "/subscriptions/abc/pause",
			requestBody:    validBody,
			user:           owner,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode id from url"}`,
		},
		{
			name:           "некорректный JSON",
			url:            "/subscriptions/42/pause",
			requestBody:    "not a json",
			user:           owner,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "отсутствует авторизация",
			url:            "/subscriptions/42/pause",
			requestBody:    validBody,
			user:           nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:        "подписка не найдена",
			url:         "/subscriptions/42/pause",
			requestBody: validBody,
			user:        owner,
			setupMock: func(m *MockService) {
				m.On("Pause", mock.Anything, owner, 42, validBody).
					Return(nil, subscription.ErrSubscriptionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"subscription not found"}`,
		},
		{
			name:        "чужая подписка",
			url:         "/subscriptions/42/pause",
			requestBody: validBody,
			user:        owner,
			setupMock: func(m *MockService) {
				m.On("Pause", mock.Anything, owner, 42, validBody).
					Return(nil, subscription.ErrNotOwner)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"access denied"}`,
		},
		{
			name:        "подписка уже отменена",
			url:         "/subscriptions/42/pause",
			requestBody: validBody,
			user:        owner,
			setupMock: func(m *MockService) {
				m.On("Pause", mock.Anything, owner, 42, validBody).
					Return(nil, subscription.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"subscription status does not allow this operation"}`,
		},
		{
			name:        "некорректный период паузы",
			url:         "/subscriptions/42/pause",
			requestBody: validBody,
			user:        owner,
			setupMock: func(m *MockService) {
				m.On("Pause", mock.Anything, owner, 42, validBody).
					Return(nil, subscription.ErrInvalidPauseRange)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `invalid pause date range`,
		},
		{
			name:        "ошибка сервиса",
			url:         "/subscriptions/42/pause",
			requestBody: validBody,
			user:        owner,
			setupMock: func(m *MockService) {
				m.On("Pause", mock.Anything, owner, 42, validBody).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not pause subscription"}`,
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

			req := httptest.NewRequest(http.MethodPost, tt.url, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			rctx := chi.NewRouteContext()
			switch tt.url {
			case "/subscriptions/abc/pause":
				rctx.URLParams.Add("id", "abc")
			default:
				rctx.URLParams.Add("id", "42")
			}

			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
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
