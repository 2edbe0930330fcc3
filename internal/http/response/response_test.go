package response

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalakhov/subtracker/internal/models"
)

func TestNewSubscriptionView(t *testing.T) {
	sub := &models.Subscription{
		ID:              "sub-1",
		UserUID:         "owner-uid-1",
		Name:            "Netflix",
		Price:           "15.99",
		Currency:        "USD",
		BillingCycle:    "monthly",
		NextPaymentDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}

	view := NewSubscriptionView(sub)

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "sub-1",
		"userId": "owner-uid-1",
		"name": "Netflix",
		"price": "15.99",
		"currency": "USD",
		"billingCycle": "monthly",
		"nextPaymentDate": "2026-10-01",
		"isActive": true
	}`, string(raw))
}

func TestNewSubscriptionView_PriceStaysLossless(t *testing.T) {
	// Значение, которое при проходе через float64 потеряло бы точность.
	sub := &models.Subscription{Price: "0.10"}
	view := NewSubscriptionView(sub)
	assert.Equal(t, "0.10", view.Price)
}

func TestNewSubscriptionList_EmptySliceIsArray(t *testing.T) {
	raw, err := json.Marshal(NewSubscriptionList(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	raw, err = json.Marshal(NewSubscriptionList([]*models.Subscription{}))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestAuthResponses(t *testing.T) {
	raw, err := json.Marshal(AuthOK("user registered successfully"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "message": "user registered successfully"}`, string(raw))

	raw, err = json.Marshal(AuthOKWithToken("login successful", "jwt-token"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "message": "login successful", "token": "jwt-token"}`, string(raw))

	raw, err = json.Marshal(AuthError("invalid username or password"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": false, "message": "invalid username or password"}`, string(raw))
}

func TestValidationError(t *testing.T) {
	validate := models.NewValidator()

	entry := models.DummyEntry{
		Currency:        "USDX",
		BillingCycle:    "monthly",
		NextPaymentDate: "not-a-date",
	}

	err := validate.Struct(entry)
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Contains(t, resp.Error, "field Name is a required field")
	assert.Contains(t, resp.Error, "field Price is a required field")
	assert.Contains(t, resp.Error, "field Currency has invalid length")
	assert.Contains(t, resp.Error, "field NextPaymentDate can contain only date in format 2006-01-02")
}
