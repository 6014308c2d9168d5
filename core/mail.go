package core

import (
	"net/mail"
	"strings"
)

type (
	EmailMessage struct {
		To          []mail.Address
		ReplyTo     *mail.Address
		Subject     string
		TextContent string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0
}

func (m *EmailMessage) HasContent() bool {
	return strings.TrimSpace(m.TextContent) != ""
}

// ParseAddressList parses a comma separated list of addresses, skipping blank input.
func ParseAddressList(list string) ([]mail.Address, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	addrs, err := mail.ParseAddressList(list)
	if err != nil {
		return nil, err
	}
	out := make([]mail.Address, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, *a)
	}
	return out, nil
}
