// Package sender отправляет email-уведомления о событиях жизненного цикла подписки.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/sea-catering/internal/lib/sl"
	"github.com/magabrotheeeer/sea-catering/internal/lib/smtp"
	"github.com/magabrotheeeer/sea-catering/internal/models"
)

// SenderService получает события из очереди и рассылает письма подписчикам.
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

// HandleSubscriptionEvent разбирает событие подписки и отправляет письмо по его типу.
// Неизвестный тип события логируется и подтверждается, чтобы не зациклить очередь.
func (s *SenderService) HandleSubscriptionEvent(body []byte) error {
	var event models.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	var subject, bodyText string
	switch event.Type {
	case models.EventSubscriptionCreated:
		subject = "Your SEA Catering subscription is active"
		bodyText = fmt.Sprintf("Hello, %s!\n\nYour %s subscription is now active.\nMonthly total: Rp%d.\n\nEnjoy your meals!",
			event.UserName, event.PlanName, event.TotalPrice)
	case models.EventSubscriptionPaused:
		from, to := "", ""
		if event.PausedFrom != nil {
			from = event.PausedFrom.Format("2006-01-02")
		}
		if event.PausedTo != nil {
			to = event.PausedTo.Format("2006-01-02")
		}
		subject = "Your SEA Catering subscription is paused"
		bodyText = fmt.Sprintf("Hello, %s!\n\nYour %s subscription is paused from %s to %s.\nNo deliveries or charges will happen during this period.",
			event.UserName, event.PlanName, from, to)
	case models.EventSubscriptionResumed:
		subject = "Your SEA Catering subscription is resumed"
		bodyText = fmt.Sprintf("Hello, %s!\n\nYour %s subscription is active again. Deliveries resume on the next scheduled day.",
			event.UserName, event.PlanName)
	case models.EventSubscriptionCancelled:
		subject = "Your SEA Catering subscription is cancelled"
		bodyText = fmt.Sprintf("Hello, %s!\n\nYour %s subscription has been cancelled.\nWe are sorry to see you go. You can subscribe again anytime.",
			event.UserName, event.PlanName)
	default:
		s.log.Warn("unknown subscription event type", slog.String("type", event.Type))
		return nil
	}

	return s.sendEmail([]string{event.UserEmail}, subject, bodyText)
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
		s.log.Error("failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
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
		s.log.Error("failed to get Data writer", "error", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
