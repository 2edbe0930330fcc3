// Package bot содержит сборку телеграм-бота.
package bot

import (
	"context"
	"log/slog"

	"github.com/kmalakhov/subtracker/internal/bot"
	"github.com/kmalakhov/subtracker/internal/config"
)

type App struct {
	bot    *bot.Bot
	logger *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tg := bot.NewTelegramClient(cfg.BotToken, cfg.PollTimeout, cfg.ClientTimeout)
	api := bot.NewAPIClient(cfg.APIBaseURL, cfg.ClientTimeout)

	return &App{
		bot:    bot.New(tg, api, logger),
		logger: logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot long polling started")
	return a.bot.Run(ctx)
}
