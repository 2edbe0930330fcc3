// Package services содержит отправку писем-напоминаний о предстоящих платежах.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kmalakhov/subtracker/internal/lib/sl"
	"github.com/kmalakhov/subtracker/internal/lib/smtp"
	"github.com/kmalakhov/subtracker/internal/models"
)

// SenderService отправляет письма-напоминания по сообщениям из брокера.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendUpcomingPaymentReminder разбирает сообщение из очереди напоминаний
// и отправляет владельцу письмо о платеже, назначенном на завтра.
func (s *SenderService) SendUpcomingPaymentReminder(body []byte) error {
	var reminder models.ReminderInfo
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal reminder body", sl.Err(err))
		return fmt.Errorf("error unmarshalling reminder: %w", err)
	}

	to := []string{reminder.Email}
	subject := "Напоминание о предстоящем платеже"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nЗавтра, %s, спишется платёж %s %s за подписку %s.",
		reminder.Username, reminder.NextPaymentDate.Format("2006-01-02"),
		reminder.Price, reminder.Currency, reminder.Name)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("reminder email sent", "to", to)
	return nil
}
