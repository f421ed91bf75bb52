package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

type QuotaServiceMock struct{ mock.Mock }

func (m *QuotaServiceMock) AdmitPost(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func newNoopLoggerQuota() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPostLimitMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		setupMock      func(m *QuotaServiceMock)
		wantStatusCode int
		wantCalled     bool
		wantBody       string
	}{
		{
			name:    "quota available passes through",
			userUID: "user1",
			setupMock: func(m *QuotaServiceMock) {
				m.On("AdmitPost", mock.Anything, "user1").Return(nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:    "quota exceeded returns 403",
			userUID: "user1",
			setupMock: func(m *QuotaServiceMock) {
				m.On("AdmitPost", mock.Anything, "user1").
					Return(models.ErrQuotaExceeded).Once()
			},
			wantStatusCode: http.StatusForbidden,
			wantBody:       "post limit reached, upgrade to post more",
		},
		{
			name:    "user not found returns 404",
			userUID: "user1",
			setupMock: func(m *QuotaServiceMock) {
				m.On("AdmitPost", mock.Anything, "user1").
					Return(models.ErrUserNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantBody:       "user not found",
		},
		{
			name:    "internal error returns 500",
			userUID: "user1",
			setupMock: func(m *QuotaServiceMock) {
				m.On("AdmitPost", mock.Anything, "user1").
					Return(errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:           "missing user uid returns 401",
			userUID:        "",
			setupMock:      func(_ *QuotaServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotaMock := new(QuotaServiceMock)
			tt.setupMock(quotaMock)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			middleware := PostLimitMiddleware(newNoopLoggerQuota(), quotaMock)(next)

			req := httptest.NewRequest(http.MethodPost, "/posts", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), UserUID, tt.userUID))
			}

			rec := httptest.NewRecorder()
			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}

			quotaMock.AssertExpectations(t)
		})
	}
}
