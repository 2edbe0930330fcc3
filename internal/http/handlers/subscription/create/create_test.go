package create

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
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kmalakhov/subtracker/internal/http/middlewarectx"
	"github.com/kmalakhov/subtracker/internal/models"
	subservice "github.com/kmalakhov/subtracker/internal/services/subscription"
)

// Мок сервиса с методом Create
type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) Create(ctx context.Context, ownerUID string, req models.DummyEntry) (*models.Subscription, error) {
	args := m.Called(ctx, ownerUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validBody() models.DummyEntry {
	return models.DummyEntry{
		Name:            "Netflix",
		Price:           "15.99",
		Currency:        "USD",
		BillingCycle:    "monthly",
		NextPaymentDate: "2026-10-01",
	}
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	const ownerUID = "owner-uid-1"

	created := &models.Subscription{
		ID:              "sub-1",
		UserUID:         ownerUID,
		Name:            "Netflix",
		Price:           "15.99",
		Currency:        "USD",
		BillingCycle:    "monthly",
		NextPaymentDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		withOwner      bool
		setupMock      func(m *SubscriptionServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "valid create",
			requestBody: validBody(),
			withOwner:   true,
			setupMock: func(m *SubscriptionServiceMock) {
				m.On("Create", mock.Anything, ownerUID, validBody()).Return(created, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			withOwner:      true,
			setupMock:      func(_ *SubscriptionServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name: "validation error - missing name",
			requestBody: func() models.DummyEntry {
				b := validBody()
				b.Name = ""
				return b
			}(),
			withOwner:      true,
			setupMock:      func(_ *SubscriptionServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Name is a required field",
		},
		{
			name: "validation error - bad date format",
			requestBody: func() models.DummyEntry {
				b := validBody()
				b.NextPaymentDate = "01.10.2026"
				return b
			}(),
			withOwner:      true,
			setupMock:      func(_ *SubscriptionServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field NextPaymentDate can contain only date in format 2006-01-02",
		},
		{
			name:           "missing owner in context",
			requestBody:    validBody(),
			withOwner:      false,
			setupMock:      func(_ *SubscriptionServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name: "invalid price rejected by service",
			requestBody: func() models.DummyEntry {
				b := validBody()
				b.Price = "15.999"
				return b
			}(),
			withOwner: true,
			setupMock: func(m *SubscriptionServiceMock) {
				m.On("Create", mock.Anything, ownerUID, mock.Anything).
					Return(nil, subservice.ErrInvalidPrice).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      subservice.ErrInvalidPrice.Error(),
		},
		{
			name:        "service error",
			requestBody: validBody(),
			withOwner:   true,
			setupMock: func(m *SubscriptionServiceMock) {
				m.On("Create", mock.Anything, ownerUID, mock.Anything).
					Return(nil, errors.New("db error")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not create subscription",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(SubscriptionServiceMock)
			tt.setupMock(svcMock)

			handler := New(newNoopLogger(), svcMock)

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

			req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withOwner {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, ownerUID)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "sub-1", got["id"])
				assert.Equal(t, ownerUID, got["userId"])
				assert.Equal(t, "15.99", got["price"])
				assert.Equal(t, "2026-10-01", got["nextPaymentDate"])
				assert.Equal(t, true, got["isActive"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
