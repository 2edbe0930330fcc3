// Package create реализует HTTP-обработчик создания подписок.
//
// Владелец создаваемой записи всегда берётся из claims токена; поле userId
// в теле запроса принимается для совместимости с клиентами и игнорируется.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/kmalakhov/subtracker/internal/http/middlewarectx"
	"github.com/kmalakhov/subtracker/internal/http/response"
	"github.com/kmalakhov/subtracker/internal/lib/sl"
	"github.com/kmalakhov/subtracker/internal/models"
	subservice "github.com/kmalakhov/subtracker/internal/services/subscription"
)

// Service описывает интерфейс бизнес-логики создания подписки.
type Service interface {
	Create(ctx context.Context, ownerUID string, req models.DummyEntry) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы на создание подписок.
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
	const op = "handlers.subscription.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyEntry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Err("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name))

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

	sub, err := h.service.Create(r.Context(), ownerUID, req)
	if err != nil {
		if subservice.IsValidation(err) {
			log.Error("invalid subscription fields", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Err(err.Error()))
			return
		}
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Err("could not create subscription"))
		return
	}

	log.Info("subscription created", slog.String("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.NewSubscriptionView(sub))
}
