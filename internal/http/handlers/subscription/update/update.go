// Package update реализует HTTP-обработчик изменения подписок.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/kmalakhov/subtracker/internal/http/middlewarectx"
	"github.com/kmalakhov/subtracker/internal/http/response"
	"github.com/kmalakhov/subtracker/internal/lib/sl"
	"github.com/kmalakhov/subtracker/internal/models"
	subservice "github.com/kmalakhov/subtracker/internal/services/subscription"
	"github.com/kmalakhov/subtracker/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики изменения подписки.
type Service interface {
	Update(ctx context.Context, ownerUID, id string, req models.DummyEntry) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы изменения подписок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: models.NewValidator(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyEntry
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Err("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Err("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	sub, err := h.service.Update(r.Context(), ownerUID, id, req)
	if err != nil {
		switch {
		case subservice.IsValidation(err):
			log.Error("invalid subscription fields", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Err(err.Error()))
		case errors.Is(err, repository.ErrSubscriptionNotFound):
			log.Info("subscription not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Err("Subscription not found"))
		default:
			log.Error("failed to update subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Err("could not update subscription"))
		}
		return
	}

	log.Info("subscription updated", slog.String("id", id))
	render.JSON(w, r, response.NewSubscriptionView(sub))
}
