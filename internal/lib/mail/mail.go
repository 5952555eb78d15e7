// Package mail отправляет электронные письма через SMTP с помощью gomail.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Dialer описывает транспорт, способный отправить подготовленные сообщения.
// *gomail.Dialer удовлетворяет этому интерфейсу.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer формирует и отправляет письма от имени заданного отправителя.
type Mailer struct {
	dialer Dialer
	from   string
}

// New создаёт Mailer поверх SMTP-сервера host:port.
func New(host string, port int, user, password, from string) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// NewWithDialer создаёт Mailer с произвольным транспортом.
func NewWithDialer(d Dialer, from string) *Mailer {
	return &Mailer{dialer: d, from: from}
}

// Send отправляет письмо с текстовым телом на адрес to.
func (m *Mailer) Send(to, subject, body string) error {
	const op = "mail.Send"
	if to == "" {
		return fmt.Errorf("%s: empty recipient", op)
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
