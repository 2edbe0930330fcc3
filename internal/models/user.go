// Package models содержит доменные структуры пользователя и подписки,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Username и Email уникальны, хэш пароля никогда не отдаётся клиенту.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя, логин и subject токена
	Email        string    // Электронная почта
	PasswordHash string    // bcrypt-хэш пароля
	CreatedAt    time.Time // Дата создания записи
	UpdatedAt    time.Time // Дата последнего изменения
}
