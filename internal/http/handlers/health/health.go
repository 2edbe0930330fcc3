// Package health реализует неаутентифицированный HTTP-обработчик проверки
// состояния сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Pinger описывает проверку доступности хранилища.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Response — состояние сервиса на момент запроса.
type Response struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
	Database  string `json:"database"`
}

// Handler отвечает состоянием сервиса и хранилища.
type Handler struct {
	log     *slog.Logger
	db      Pinger
	version string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, db Pinger, version string) *Handler {
	return &Handler{
		log:     log,
		db:      db,
		version: version,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	database := "PostgreSQL"
	if err := h.db.PingContext(r.Context()); err != nil {
		database = "unreachable"
	}

	render.JSON(w, r, Response{
		Status:    "UP",
		Timestamp: time.Now().UnixMilli(),
		Version:   h.version,
		Database:  database,
	})
}
