// Package remove реализует HTTP-обработчик удаления подписок.
//
// Удаление жёсткое и идемпотентное в пределах записей владельца:
// повторный запрос с тем же id отвечает 404 без побочных эффектов.
package remove

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
)

// Service описывает интерфейс бизнес-логики удаления подписки.
type Service interface {
	Remove(ctx context.Context, ownerUID, id string) (bool, error)
}

// Handler обрабатывает HTTP-запросы удаления подписок.
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
	const op = "handlers.subscription.remove"

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

	id := chi.URLParam(r, "id")
	deleted, err := h.service.Remove(r.Context(), ownerUID, id)
	if err != nil {
		log.Error("failed to delete subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Err("could not delete subscription"))
		return
	}
	if !deleted {
		log.Info("subscription not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Err("Subscription not found"))
		return
	}

	log.Info("subscription deleted", slog.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
