package subtracker

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kmalakhov/subtracker/internal/http/handlers/auth/login"
	"github.com/kmalakhov/subtracker/internal/http/handlers/auth/register"
	"github.com/kmalakhov/subtracker/internal/http/handlers/health"
	"github.com/kmalakhov/subtracker/internal/http/handlers/subscription/create"
	"github.com/kmalakhov/subtracker/internal/http/handlers/subscription/list"
	"github.com/kmalakhov/subtracker/internal/http/handlers/subscription/remove"
	"github.com/kmalakhov/subtracker/internal/http/handlers/subscription/update"
	"github.com/kmalakhov/subtracker/internal/http/middlewarectx"
	authservice "github.com/kmalakhov/subtracker/internal/services/auth"
	subservice "github.com/kmalakhov/subtracker/internal/services/subscription"
	"github.com/kmalakhov/subtracker/internal/storage/repository"

	"log/slog"
)

// swaggerSpec — описание API, которое отдаётся swagger-интерфейсу.
//
//go:embed swagger.json
var swaggerSpec []byte

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, authService *authservice.AuthService, subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/register", register.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)
	r.Get("/health", health.New(logger, db.DB, Version).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Группа с JWT аутентификацией
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions", list.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/{userId}", list.New(logger, subscriptionService).ServeHTTP)
		r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
		r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Swagger docs endpoint
	r.Get("/docs/swagger.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(swaggerSpec)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/swagger.json")))
}
