// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей и подписок. Нарушения уникальности и промахи поиска
// возвращаются типизированными ошибками, чтобы API-слой мог однозначно
// сопоставить их с HTTP-статусами.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Типизированные исходы операций хранилища.
var (
	// ErrUserExists — пользователь с таким username или email уже есть.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound — пользователь с таким username не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrSubscriptionNotFound — подписка с таким id у владельца не найдена.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Storage инкапсулирует соединение с PostgreSQL и реализует методы
// работы с пользователями и подписками.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// CheckDatabaseReady проверяет, что основная таблица создана и база готова.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table subscriptions missing or query error: %w", err)
	}
	return nil
}
