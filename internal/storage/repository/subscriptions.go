package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kmalakhov/subtracker/internal/models"
)

// CreateSubscription вставляет новую запись подписки со всеми полями,
// включая сгенерированный на стороне приложения id.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_uid, name, price, currency,
			      billing_cycle, next_payment_date, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.UserUID, sub.Name, sub.Price, sub.Currency,
		sub.BillingCycle, sub.NextPaymentDate, sub.IsActive, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscription возвращает подписку по id в пределах записей владельца
// или ErrSubscriptionNotFound.
func (s *Storage) GetSubscription(ctx context.Context, id, ownerUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, price, currency, billing_cycle,
			      next_payment_date, is_active, created_at, updated_at
			  FROM subscriptions
			  WHERE id = $1 AND user_uid = $2`
	var item models.Subscription
	row := s.DB.QueryRowContext(ctx, query, id, ownerUID)
	if err := row.Scan(&item.ID, &item.UserUID, &item.Name, &item.Price, &item.Currency,
		&item.BillingCycle, &item.NextPaymentDate, &item.IsActive,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// ListByOwner возвращает все подписки владельца. Для владельца без записей
// возвращается пустой срез, а не ошибка.
func (s *Storage) ListByOwner(ctx context.Context, ownerUID string) ([]*models.Subscription, error) {
	const op = "storage.ListByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, price, currency, billing_cycle,
			      next_payment_date, is_active, created_at, updated_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Subscription, 0)
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Name, &item.Price, &item.Currency,
			&item.BillingCycle, &item.NextPaymentDate, &item.IsActive,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllSubscriptions возвращает подписки всех пользователей с пагинацией.
// Через HTTP этот срез не отдаётся, метод используется служебными задачами.
func (s *Storage) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, price, currency, billing_cycle,
			      next_payment_date, is_active, created_at, updated_at
			  FROM subscriptions
			  ORDER BY created_at
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Subscription, 0)
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Name, &item.Price, &item.Currency,
			&item.BillingCycle, &item.NextPaymentDate, &item.IsActive,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscription обновляет поля подписки владельца и возвращает
// количество изменённых строк. Ноль означает, что записи нет.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id, ownerUID string) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET name = $1, price = $2, currency = $3, billing_cycle = $4,
			      next_payment_date = $5, is_active = $6, updated_at = $7
			  WHERE id = $8 AND user_uid = $9`
	result, err := s.DB.ExecContext(ctx, query,
		sub.Name, sub.Price, sub.Currency, sub.BillingCycle,
		sub.NextPaymentDate, sub.IsActive, sub.UpdatedAt, id, ownerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку владельца по id и возвращает
// количество удалённых строк. Повторное удаление того же id безопасно.
func (s *Storage) RemoveSubscription(ctx context.Context, id, ownerUID string) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, ownerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindDueTomorrow находит активные подписки, у которых платёж завтра,
// вместе с email владельца для письма-напоминания.
func (s *Storage) FindDueTomorrow(ctx context.Context) ([]*models.ReminderInfo, error) {
	const op = "storage.FindDueTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, u.username, s.name, s.price, s.currency, s.next_payment_date
			  FROM subscriptions s
			  JOIN users u ON s.user_uid = u.uid
			  WHERE s.is_active = true
			    AND s.next_payment_date = CURRENT_DATE + INTERVAL '1 day'`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ReminderInfo
	for rows.Next() {
		var ri models.ReminderInfo
		if err = rows.Scan(&ri.Email, &ri.Username, &ri.Name, &ri.Price,
			&ri.Currency, &ri.NextPaymentDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ri)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
