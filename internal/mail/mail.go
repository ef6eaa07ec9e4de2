package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender relays one plaintext message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

var ErrNotConfigured = errors.New("mail relay credentials are not configured")

// SMTPSender authenticates against an SMTP relay with the operator's
// credentials and sends from the operator address.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

func NewSMTPSender(host string, port int, username, password string, timeout time.Duration) *SMTPSender {
	return &SMTPSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		Timeout:  timeout,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if s.Username == "" || s.Password == "" {
		return ErrNotConfigured
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.Username); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(s.Host,
		gomail.WithPort(s.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.Username),
		gomail.WithPassword(s.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(s.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
