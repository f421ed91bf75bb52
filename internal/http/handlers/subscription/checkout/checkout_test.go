package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/chirp-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// MockService реализует интерфейс checkout.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateCheckout(ctx context.Context, userUID, planName string, price int) (string, string, error) {
	args := m.Called(ctx, userUID, planName, price)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCheckoutHandler(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное оформление",
			body:    `{"plan":"Bronze","price":100}`,
			userUID: "user1",
			setupMock: func(m *MockService) {
				m.On("CreateCheckout", mock.Anything, "user1", "Bronze", 100).
					Return("cs_test_1", "https://pay.example/cs_test_1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"session_id":"cs_test_1"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"plan":`,
			userUID:        "user1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "нет тарифа в запросе",
			body:           `{"price":100}`,
			userUID:        "user1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Plan is a required field`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"plan":"Bronze","price":100}`,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:    "неизвестный тариф",
			body:    `{"plan":"Platinum","price":100}`,
			userUID: "user1",
			setupMock: func(m *MockService) {
				m.On("CreateCheckout", mock.Anything, "user1", "Platinum", 100).
					Return("", "", models.ErrUnknownPlan)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"unknown plan"`,
		},
		{
			name:    "шлюз недоступен",
			body:    `{"plan":"Bronze","price":100}`,
			userUID: "user1",
			setupMock: func(m *MockService) {
				m.On("CreateCheckout", mock.Anything, "user1", "Bronze", 100).
					Return("", "", errors.New("gateway timeout"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"payment gateway unavailable"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscription/checkout", strings.NewReader(tt.body))
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
