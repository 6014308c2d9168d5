package contact

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
)

type Message struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// NewMessage is what a visitor posts through the contact form.
type NewMessage struct {
	Name    string `json:"name" validate:"required,notblank,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank,max=10000"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.Name = core.CleanString(nm.Name)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	nm.Subject = core.CleanString(nm.Subject)
	nm.Message = strings.TrimSpace(nm.Message)
	return validate.Struct(nm)
}

type (
	// Repository stores contact messages; they are append-only.
	Repository interface {
		QueryMessages(ctx context.Context) ([]Message, error)
		CreateMessage(ctx context.Context, m Message) (Message, error)
	}

	Service struct {
		repo       Repository
		mailSvc    core.EmailService
		recipients []mail.Address
		nowFunc    func() time.Time
	}
)

// NewService returns a contact Service. Every stored message is forwarded by mail to `recipients` (if any).
func NewService(repo Repository, mailSvc core.EmailService, recipients []mail.Address) *Service {
	return &Service{
		repo:       repo,
		mailSvc:    mailSvc,
		recipients: recipients,
		nowFunc:    time.Now,
	}
}

func (svc *Service) Query(ctx context.Context) ([]Message, error) {
	return svc.repo.QueryMessages(ctx)
}

func (svc *Service) Create(ctx context.Context, nm NewMessage) (Message, error) {
	m, err := svc.repo.CreateMessage(ctx, Message{
		Name:    nm.Name,
		Email:   nm.Email,
		Subject: nm.Subject,
		Message: nm.Message,
		Date:    svc.nowFunc().UTC(),
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "creating contact message")
	}
	svc.notify(m)
	return m, nil
}

func (svc *Service) notify(m Message) {
	if svc.mailSvc == nil || len(svc.recipients) == 0 {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      svc.recipients,
		ReplyTo: &mail.Address{Name: m.Name, Address: m.Email},
		Subject: "Contact: " + m.Subject,
		TextContent: fmt.Sprintf(
			"From: %s <%s>\nDate: %s\n\n%s",
			m.Name, m.Email, m.Date.Format(time.RFC1123Z), m.Message,
		),
	})
}
