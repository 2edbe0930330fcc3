// Package middlewarectx содержит HTTP middleware защищённых маршрутов.
//
// JWTMiddleware проверяет наличие и валидность токена сессии в заголовке
// Authorization и при успехе добавляет в контекст имя пользователя и его uid.
// При любой ошибке проверки возвращается 401 до обращения к хранилищу.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kmalakhov/subtracker/internal/http/response"
	"github.com/kmalakhov/subtracker/internal/lib/jwt"
	"github.com/kmalakhov/subtracker/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте.
	User Key = "username"
	// UserUID — ключ для идентификатора пользователя в контексте.
	UserUID Key = "user_uid"
)

// Service описывает интерфейс сервиса для валидации токена сессии.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*jwt.Claims, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет токен
// в заголовке Authorization и кладёт claims в контекст запроса.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Err("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Err("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, UserUID, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
