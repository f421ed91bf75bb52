package confirm

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

	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// MockService реализует интерфейс confirm.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ConfirmCheckout(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestConfirmHandler(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное подтверждение",
			body: `{"session_id":"cs_1"}`,
			setupMock: func(m *MockService) {
				m.On("ConfirmCheckout", mock.Anything, "cs_1").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"confirmed":true`,
		},
		{
			name: "оплата ещё не прошла",
			body: `{"session_id":"cs_2"}`,
			setupMock: func(m *MockService) {
				m.On("ConfirmCheckout", mock.Anything, "cs_2").Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"confirmed":false`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"session_id":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "нет session_id",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field SessionID is a required field`,
		},
		{
			name: "сессия не найдена",
			body: `{"session_id":"cs_missing"}`,
			setupMock: func(m *MockService) {
				m.On("ConfirmCheckout", mock.Anything, "cs_missing").
					Return(false, models.ErrSessionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"checkout session not found"`,
		},
		{
			name: "шлюз недоступен",
			body: `{"session_id":"cs_3"}`,
			setupMock: func(m *MockService) {
				m.On("ConfirmCheckout", mock.Anything, "cs_3").
					Return(false, errors.New("gateway timeout"))
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

			req := httptest.NewRequest(http.MethodPost, "/subscription/confirm", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
