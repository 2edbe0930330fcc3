package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnauthorized токен отсутствует или отклонён сервером.
var ErrUnauthorized = errors.New("unauthorized")

// SubscriptionItem подписка в том виде, в котором её отдаёт сервер.
type SubscriptionItem struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	Currency        string `json:"currency"`
	BillingCycle    string `json:"billingCycle"`
	NextPaymentDate string `json:"nextPaymentDate"`
	IsActive        bool   `json:"isActive"`
}

// CreateSubscriptionRequest тело запроса на создание подписки.
type CreateSubscriptionRequest struct {
	Name            string `json:"name"`
	Price           string `json:"price"`
	Currency        string `json:"currency"`
	BillingCycle    string `json:"billingCycle"`
	NextPaymentDate string `json:"nextPaymentDate"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIClient клиент HTTP API трекера подписок.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient создаёт клиент для заданного адреса сервера.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// Login выполняет вход и возвращает JWT-токен.
func (c *APIClient) Login(ctx context.Context, username, password string) (string, error) {
	const op = "bot.APIClient.Login"

	body := map[string]string{"username": username, "password": password}
	req, err := c.newRequest(ctx, http.MethodPost, "/login", "", body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var authResp authResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK || !authResp.Success {
		return "", fmt.Errorf("%s: %s", op, authResp.Message)
	}
	return authResp.Token, nil
}

// ListSubscriptions возвращает подписки владельца токена.
func (c *APIClient) ListSubscriptions(ctx context.Context, token string) ([]SubscriptionItem, error) {
	const op = "bot.APIClient.ListSubscriptions"

	req, err := c.newRequest(ctx, http.MethodGet, "/api/subscriptions", token, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var items []SubscriptionItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// CreateSubscription создаёт подписку владельца токена.
func (c *APIClient) CreateSubscription(ctx context.Context, token string, reqBody CreateSubscriptionRequest) (*SubscriptionItem, error) {
	const op = "bot.APIClient.CreateSubscription"

	req, err := c.newRequest(ctx, http.MethodPost, "/api/subscriptions", token, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusCreated {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("%s: %s", op, errResp.Error)
	}

	var item SubscriptionItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// DeleteSubscription удаляет подписку, false - если она не найдена.
func (c *APIClient) DeleteSubscription(ctx context.Context, token, id string) (bool, error) {
	const op = "bot.APIClient.DeleteSubscription"

	req, err := c.newRequest(ctx, http.MethodDelete, "/api/subscriptions/"+id, token, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusUnauthorized:
		return false, ErrUnauthorized
	default:
		return false, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
}
