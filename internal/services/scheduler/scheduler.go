// Package services содержит периодическую задачу поиска подписок
// с платежом на завтра и публикации напоминаний в брокер.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/kmalakhov/subtracker/internal/lib/rabbitmq"
	"github.com/kmalakhov/subtracker/internal/lib/sl"
	"github.com/kmalakhov/subtracker/internal/models"
)

// SubscriptionRepository описывает выборку подписок для напоминаний.
type SubscriptionRepository interface {
	FindDueTomorrow(ctx context.Context) ([]*models.ReminderInfo, error)
}

// SchedulerService периодически публикует напоминания о предстоящих платежах.
type SchedulerService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindUpcomingPayments запускает поиск сразу и затем раз в 12 часов,
// пока контекст не отменён.
func (s *SchedulerService) FindUpcomingPayments(ctx context.Context, channel *amqp.Channel) {
	s.runFindUpcomingPayments(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindUpcomingPayments(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindUpcomingPayments(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting search for subscriptions with payment due tomorrow")
	reminders, err := s.repo.FindDueTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find due subscriptions", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		s.log.Info("no upcoming payments found")
		return
	}
	s.log.Info("found upcoming payments", "count", len(reminders))
	for _, reminder := range reminders {
		err = rabbitmq.PublishMessage(channel, "reminders", "upcoming", reminder)
		if err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
		}
	}
}
