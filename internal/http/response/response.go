// Package response содержит типы и функции для формирования JSON-ответов
// HTTP-обработчиков. Эндпоинты аутентификации отвечают парой success/message,
// эндпоинты подписок — записью подписки либо объектом с полем error.
package response

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/kmalakhov/subtracker/internal/models"
)

// AuthResponse — ответ эндпоинтов регистрации и входа.
// Token присутствует только при успешном входе.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// ErrorResponse — ответ эндпоинтов подписок при ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthOK возвращает успешный AuthResponse с сообщением.
func AuthOK(msg string) AuthResponse {
	return AuthResponse{Success: true, Message: msg}
}

// AuthOKWithToken возвращает успешный AuthResponse с токеном сессии.
func AuthOKWithToken(msg, token string) AuthResponse {
	return AuthResponse{Success: true, Message: msg, Token: token}
}

// AuthError возвращает неуспешный AuthResponse с сообщением.
func AuthError(msg string) AuthResponse {
	return AuthResponse{Success: false, Message: msg}
}

// Err возвращает ErrorResponse с переданным сообщением.
func Err(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение переводится в человеко-читаемый текст, объединённый
// через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has invalid length", err.Field()))
		case "alpha":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only letters", err.Field()))
		case "datetime":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only date in format 2006-01-02", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{Error: strings.Join(errsMsgs, ", ")}
}

// SubscriptionView — представление подписки на проводе: цена остаётся
// десятичной строкой, дата платежа — календарной датой без времени.
type SubscriptionView struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	Currency        string `json:"currency"`
	BillingCycle    string `json:"billingCycle"`
	NextPaymentDate string `json:"nextPaymentDate"`
	IsActive        bool   `json:"isActive"`
}

// NewSubscriptionView преобразует доменную подписку в представление на проводе.
func NewSubscriptionView(sub *models.Subscription) SubscriptionView {
	return SubscriptionView{
		ID:              sub.ID,
		UserID:          sub.UserUID,
		Name:            sub.Name,
		Price:           sub.Price,
		Currency:        sub.Currency,
		BillingCycle:    sub.BillingCycle,
		NextPaymentDate: sub.NextPaymentDate.Format(time.DateOnly),
		IsActive:        sub.IsActive,
	}
}

// NewSubscriptionList преобразует срез подписок. Для пустого среза
// возвращается пустой массив, а не null.
func NewSubscriptionList(subs []*models.Subscription) []SubscriptionView {
	views := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, NewSubscriptionView(sub))
	}
	return views
}
