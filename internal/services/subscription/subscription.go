// Package services содержит бизнес-логику управления подписками
// и кеширования их списков.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmalakhov/subtracker/internal/models"
)

// Ошибки валидации входных данных подписки. API-слой сопоставляет их
// со статусом 400.
var (
	ErrInvalidPrice        = errors.New("price must be a non-negative decimal")
	ErrInvalidBillingCycle = errors.New("billing cycle must be monthly, yearly or weekly")
	ErrInvalidDate         = errors.New("next payment date must be in format YYYY-MM-DD")
)

// IsValidation сообщает, относится ли ошибка к валидации входных данных.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidBillingCycle) ||
		errors.Is(err, ErrInvalidDate)
}

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку.
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	// GetSubscription возвращает подписку владельца по id.
	GetSubscription(ctx context.Context, id, ownerUID string) (*models.Subscription, error)
	// ListByOwner возвращает все подписки владельца.
	ListByOwner(ctx context.Context, ownerUID string) ([]*models.Subscription, error)
	// UpdateSubscription обновляет подписку и возвращает число изменённых строк.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id, ownerUID string) (int, error)
	// RemoveSubscription удаляет подписку и возвращает число удалённых строк.
	RemoveSubscription(ctx context.Context, id, ownerUID string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
// Владелец каждой операции приходит из claims токена, а не из запроса.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func listCacheKey(ownerUID string) string {
	return fmt.Sprintf("subscriptions:user:%s", ownerUID)
}

// validate проверяет поля запроса и возвращает разобранную дату платежа.
func validate(req models.DummyEntry) (time.Time, error) {
	if !models.ValidPrice(req.Price) {
		return time.Time{}, ErrInvalidPrice
	}
	if !models.ValidBillingCycle(req.BillingCycle) {
		return time.Time{}, ErrInvalidBillingCycle
	}
	nextPayment, err := time.Parse("2006-01-02", req.NextPaymentDate)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return nextPayment, nil
}

// Create создает новую подписку владельца и возвращает созданную запись.
func (s *SubscriptionService) Create(ctx context.Context, ownerUID string, req models.DummyEntry) (*models.Subscription, error) {
	nextPayment, err := validate(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := models.Subscription{
		ID:              uuid.New().String(),
		UserUID:         ownerUID,
		Name:            req.Name,
		Price:           req.Price,
		Currency:        strings.ToUpper(req.Currency),
		BillingCycle:    req.BillingCycle,
		NextPaymentDate: nextPayment,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.String("id", sub.ID))

	if err := s.cache.Invalidate(listCacheKey(ownerUID)); err != nil {
		s.log.Warn("failed to invalidate list cache", slog.String("owner", ownerUID), slog.Any("err", err))
	}
	return &sub, nil
}

// List возвращает все подписки владельца, используя кеш или репозиторий.
func (s *SubscriptionService) List(ctx context.Context, ownerUID string) ([]*models.Subscription, error) {
	var result []*models.Subscription
	cacheKey := listCacheKey(ownerUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read list cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListByOwner(ctx, ownerUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache list", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет подписку владельца и возвращает обновлённую запись.
// Признак активности не входит в запрос и сохраняется из текущей записи.
// Если записи нет, поднимается repository.ErrSubscriptionNotFound.
func (s *SubscriptionService) Update(ctx context.Context, ownerUID, id string, req models.DummyEntry) (*models.Subscription, error) {
	nextPayment, err := validate(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetSubscription(ctx, id, ownerUID)
	if err != nil {
		return nil, err
	}

	sub := models.Subscription{
		ID:              existing.ID,
		UserUID:         existing.UserUID,
		Name:            req.Name,
		Price:           req.Price,
		Currency:        strings.ToUpper(req.Currency),
		BillingCycle:    req.BillingCycle,
		NextPaymentDate: nextPayment,
		IsActive:        existing.IsActive,
		CreatedAt:       existing.CreatedAt,
		UpdatedAt:       time.Now().UTC(),
	}
	if _, err := s.repo.UpdateSubscription(ctx, sub, id, ownerUID); err != nil {
		return nil, err
	}
	s.log.Info("updated subscription", slog.String("id", id))

	if err := s.cache.Invalidate(listCacheKey(ownerUID)); err != nil {
		s.log.Warn("failed to invalidate list cache", slog.String("owner", ownerUID), slog.Any("err", err))
	}
	return &sub, nil
}

// Remove удаляет подписку владельца. Возвращает false без побочных
// эффектов, если записи с таким id у владельца нет.
func (s *SubscriptionService) Remove(ctx context.Context, ownerUID, id string) (bool, error) {
	count, err := s.repo.RemoveSubscription(ctx, id, ownerUID)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	s.log.Info("removed subscription", slog.String("id", id))

	if err := s.cache.Invalidate(listCacheKey(ownerUID)); err != nil {
		s.log.Warn("failed to invalidate list cache", slog.String("owner", ownerUID), slog.Any("err", err))
	}
	return true, nil
}
