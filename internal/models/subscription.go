package models

import (
	"regexp"
	"time"

	"github.com/go-playground/validator"
)

// Периоды списания подписки. Хранятся в базе как текст с соответствующим
// CHECK-ограничением.
const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
	CycleWeekly  = "weekly"
)

// priceRe описывает допустимый формат цены: неотрицательное десятичное
// число с максимум двумя знаками после точки.
var priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidBillingCycle сообщает, входит ли значение в перечисление периодов.
func ValidBillingCycle(cycle string) bool {
	switch cycle {
	case CycleMonthly, CycleYearly, CycleWeekly:
		return true
	}
	return false
}

// ValidPrice сообщает, является ли строка корректной десятичной ценой.
func ValidPrice(price string) bool {
	return priceRe.MatchString(price)
}

// NewValidator возвращает валидатор для входных структур. Тег datetime
// регистрируется вручную: он проверяет, что строка разбирается по макету
// из параметра тега.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("datetime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(fl.Param(), fl.Field().String())
		return err == nil
	})
	return v
}

// Subscription представляет запись о подписке пользователя.
// Цена хранится строкой и сопоставляется с колонкой NUMERIC без
// преобразования в float, чтобы не терять точность денежной суммы.
type Subscription struct {
	ID              string    // Уникальный идентификатор записи (UUID)
	UserUID         string    // Идентификатор пользователя-владельца
	Name            string    // Название сервиса, например "Netflix"
	Price           string    // Десятичная цена, например "15.99"
	Currency        string    // Трёхбуквенный код валюты
	BillingCycle    string    // Период списания: monthly, yearly или weekly
	NextPaymentDate time.Time // Дата следующего платежа, без времени
	IsActive        bool      // Признак активной подписки
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DummyEntry используется для приёма данных подписки из JSON-запроса
// до их валидации и преобразования в Subscription. Цена и дата приходят
// строками. Поле UserID принимается для совместимости с клиентами,
// но владелец всегда берётся из claims токена.
type DummyEntry struct {
	UserID          string `json:"userId,omitempty"`
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Price           string `json:"price" validate:"required"`
	Currency        string `json:"currency" validate:"required,len=3,alpha"`
	BillingCycle    string `json:"billingCycle" validate:"required"`
	NextPaymentDate string `json:"nextPaymentDate" validate:"required,datetime=2006-01-02"`
}

// ReminderInfo содержит данные для письма-напоминания о предстоящем платеже.
type ReminderInfo struct {
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	Name            string    `json:"name"`
	Price           string    `json:"price"`
	Currency        string    `json:"currency"`
	NextPaymentDate time.Time `json:"next_payment_date"`
}
