package register

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

	"github.com/magabrotheeeer/sea-catering/internal/lib/validation"
	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/services/auth"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := Request{
		Name:     "Budi Santoso",
		Email:    "budi@example.com",
		Password: "Str0ng!Pass",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная регистрация",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Budi Santoso", "budi@example.com", "Str0ng!Pass").
					Return(&models.User{UID: "uid-123", Name: "Budi Santoso", Email: "budi@example.com", Role: models.RoleUser}, "jwt-token", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"token":"jwt-token"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "слишком короткое имя",
			requestBody: Request{
				Name:     "B",
				Email:    "budi@example.com",
				Password: "Str0ng!Pass",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is shorter than the allowed minimum`,
		},
		{
			name:        "некорректный email",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Budi Santoso", "budi@example.com", "Str0ng!Pass").
					Return(nil, "", auth.ErrInvalidEmail)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"invalid email address"}`,
		},
		{
			name:        "слабый пароль",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Budi Santoso", "budi@example.com", "Str0ng!Pass").
					Return(nil, "", &auth.WeakPasswordError{Violations: []string{
						validation.MsgPasswordNoUpper,
						validation.MsgPasswordNoDigit,
					}})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `Password must contain at least one uppercase letter, Password must contain at least one number`,
		},
		{
			name:        "email уже занят",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Budi Santoso", "budi@example.com", "Str0ng!Pass").
					Return(nil, "", auth.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"email is already registered"}`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Budi Santoso", "budi@example.com", "Str0ng!Pass").
					Return(nil, "", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to register user"}`,
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

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
