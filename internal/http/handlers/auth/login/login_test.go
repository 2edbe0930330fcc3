package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authservice "github.com/kmalakhov/subtracker/internal/services/auth"
)

// Мок сервиса с методом Login
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, rawPassword string) (string, error) {
	args := m.Called(ctx, username, rawPassword)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockToken      string
		mockErr        error
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
		wantToken      string
	}{
		{
			name: "valid login",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
			},
			mockToken:      "jwt-token-123",
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    "login successful",
			wantToken:      "jwt-token-123",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "invalid request body",
		},
		{
			name: "validation error - missing password",
			requestBody: Request{
				Username: "user1",
			},
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "username and password are required",
		},
		{
			name: "unknown user",
			requestBody: Request{
				Username: "ghost",
				Password: "password123",
			},
			mockErr:        authservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantSuccess:    false,
			wantMessage:    "invalid username or password",
		},
		{
			name: "wrong password",
			requestBody: Request{
				Username: "user1",
				Password: "wrongpass",
			},
			mockErr:        authservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantSuccess:    false,
			wantMessage:    "invalid username or password",
		},
		{
			name: "service error",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
			},
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantSuccess:    false,
			wantMessage:    "failed to login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if req, ok := tt.requestBody.(Request); ok && req.Username != "" && req.Password != "" {
				authMock.On("Login", mock.Anything, req.Username, req.Password).
					Return(tt.mockToken, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, got["success"])
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.wantToken != "" {
				assert.Equal(t, tt.wantToken, got["token"])
			} else {
				_, hasToken := got["token"]
				assert.False(t, hasToken)
			}

			authMock.AssertExpectations(t)
		})
	}
}
