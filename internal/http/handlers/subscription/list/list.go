// Package list реализует HTTP-обработчик списка подписок.
//
// Обработчик обслуживает и GET /subscriptions, и GET /subscriptions/{userId}:
// в обоих случаях отдаются только записи владельца токена. Запрос чужого
// userId завершается статусом 403.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kmalakhov/subtracker/internal/http/middlewarectx"
	"github.com/kmalakhov/subtracker/internal/http/response"
	"github.com/kmalakhov/subtracker/internal/lib/sl"
	"github.com/kmalakhov/subtracker/internal/models"
)

// Service описывает интерфейс бизнес-логики списка подписок.
type Service interface {
	List(ctx context.Context, ownerUID string) ([]*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы списка подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Err("unauthorized"))
		return
	}

	if requested := chi.URLParam(r, "userId"); requested != "" && requested != ownerUID {
		log.Error("attempt to list another user's subscriptions",
			slog.String("requested", requested))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Err("forbidden"))
		return
	}

	subs, err := h.service.List(r.Context(), ownerUID)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Err("could not list subscriptions"))
		return
	}

	log.Info("subscriptions listed", slog.Int("count", len(subs)))
	render.JSON(w, r, response.NewSubscriptionList(subs))
}
