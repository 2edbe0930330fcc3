// Package services содержит бизнес-логику регистрации, входа
// и проверки токенов сессии.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kmalakhov/subtracker/internal/lib/jwt"
	"github.com/kmalakhov/subtracker/internal/lib/password"
	"github.com/kmalakhov/subtracker/internal/models"
	"github.com/kmalakhov/subtracker/internal/storage/repository"
)

// ErrInvalidCredentials — неизвестный пользователь или неверный пароль.
// Наружу оба случая выглядят одинаково.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его uid.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создаёт нового пользователя, хэшируя пароль перед сохранением.
// Занятый username или email поднимается как repository.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (string, error) {
	const op = "services.auth.Register"
	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и выпускает токен сессии.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "services.auth.Login"
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Verify(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.IssueToken(user.Username, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken проверяет токен сессии и возвращает его claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.Claims, error) {
	return s.jwtMaker.ParseToken(token)
}
