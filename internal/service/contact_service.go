package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/mail"
	log "github.com/sirupsen/logrus"
)

const ContactSubject = "New Message"

var ErrMailRelay = ginblog.ApiError{
	ErrorCode: "MAIL_RELAY_FAILED",
	Message:   "Sorry, your message could not be sent. Please try again later.",
	Status:    http.StatusBadGateway,
}

// ContactService relays contact form submissions to the site operator.
type ContactService struct {
	sender  mail.Sender
	to      string
	timeout time.Duration
}

func NewContactService(sender mail.Sender, to string, timeout time.Duration) *ContactService {
	return &ContactService{sender: sender, to: to, timeout: timeout}
}

func (s *ContactService) Send(ctx context.Context, form ContactForm) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.sender.Send(ctx, s.to, ContactSubject, ComposeContactMessage(form)); err != nil {
		log.WithError(err).Error("contact message could not be relayed")
		return ErrMailRelay
	}
	return nil
}

func ComposeContactMessage(form ContactForm) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nMessage:%s", form.Name, form.Email, form.Phone, form.Message)
}
