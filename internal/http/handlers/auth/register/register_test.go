package register

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

	"github.com/kmalakhov/subtracker/internal/storage/repository"
)

// Мок сервиса с методом Register
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, username, email, rawPassword string) (string, error) {
	args := m.Called(ctx, username, email, rawPassword)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockErr        error
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
		wantToken      bool
	}{
		{
			name: "valid registration",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    "user registered successfully",
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
				Email:    "user1@example.com",
			},
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "username, email and password are required",
		},
		{
			name: "validation error - short username",
			requestBody: Request{
				Username: "u",
				Email:    "user1@example.com",
				Password: "password123",
			},
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "username, email and password are required",
		},
		{
			name: "validation error - malformed email",
			requestBody: Request{
				Username: "user1",
				Email:    "not-an-email",
				Password: "password123",
			},
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "username, email and password are required",
		},
		{
			name: "duplicate username or email",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        repository.ErrUserExists,
			wantStatusCode: http.StatusBadRequest,
			wantSuccess:    false,
			wantMessage:    "user with this username or email already exists",
		},
		{
			name: "storage error",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantSuccess:    false,
			wantMessage:    "failed to register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.name == "valid registration" || tt.name == "duplicate username or email" || tt.name == "storage error" {
				authMock.On("Register", mock.Anything,
					"user1", "user1@example.com", "password123",
				).Return("new-uid", tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, got["success"])
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.wantToken {
				assert.NotEmpty(t, got["token"])
			} else {
				_, hasToken := got["token"]
				assert.False(t, hasToken)
			}

			authMock.AssertExpectations(t)
		})
	}
}
