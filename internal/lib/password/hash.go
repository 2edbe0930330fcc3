// Package password реализует хеширование и проверку паролей пользователей.
//
// Используется bcrypt с солью: одинаковые пароли дают разные дайджесты,
// но Verify корректно сопоставляет пароль с любым из них. Длина дайджеста
// постоянна и не зависит от длины пароля.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash принимает пароль пользователя и возвращает его bcrypt-хэш
// для безопасного хранения в базе данных.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сравнивает сохранённый bcrypt-хэш с введённым паролем.
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func Verify(storedHash, rawPassword string) error {
	const op = "password.Verify"
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(rawPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
