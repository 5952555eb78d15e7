// Package sender превращает события подписки в письма пользователям.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Mailer отправляет текстовое письмо.
type Mailer interface {
	Send(to, subject, body string) error
}

// Service обрабатывает сообщения из очереди событий подписки.
type Service struct {
	mailer Mailer
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(mailer Mailer, log *slog.Logger) *Service {
	return &Service{
		mailer: mailer,
		log:    log,
	}
}

// HandleEvent разбирает событие и отправляет соответствующее письмо.
// События без адреса получателя пропускаются.
func (s *Service) HandleEvent(_ context.Context, body []byte) error {
	const op = "sender.HandleEvent"

	var event models.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if event.Email == "" {
		s.log.Warn("event without recipient", slog.String("type", string(event.Type)), slog.String("user_uid", event.UserUID))
		return nil
	}

	subject, text, ok := compose(event)
	if !ok {
		s.log.Warn("unknown event type", slog.String("type", string(event.Type)))
		return nil
	}
	if err := s.mailer.Send(event.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("email sent successfully", slog.String("type", string(event.Type)), slog.String("user_uid", event.UserUID))
	return nil
}

func compose(event models.SubscriptionEvent) (string, string, bool) {
	end := "the end of the current period"
	if event.SubscriptionEnd != nil {
		end = event.SubscriptionEnd.Format(time.DateOnly)
	}

	switch event.Type {
	case models.EventActivated:
		return "Your Premium subscription is active",
			fmt.Sprintf("Hello!\n\nThank you for upgrading. Premium is active until %s: unlimited summaries and flashcard decks.", end),
			true
	case models.EventCancelled:
		return "Your subscription has been cancelled",
			fmt.Sprintf("Hello!\n\nYour Premium subscription was cancelled. You keep Premium access until %s.", end),
			true
	case models.EventExpiring:
		return "Your subscription ends soon",
			fmt.Sprintf("Hello!\n\nYour Premium subscription ends on %s. Renew it to keep unlimited access.", end),
			true
	case models.EventExpired:
		return "Your subscription has ended",
			"Hello!\n\nYour Premium subscription has ended. Your account is back on the free plan with up to 3 summaries and 3 flashcard decks.",
			true
	default:
		return "", "", false
	}
}
