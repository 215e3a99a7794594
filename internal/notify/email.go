package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender delivers booking mail over plain SMTP. Delivery is
// fire-and-forget and never retried.
type EmailSender struct {
	addr string
	from string
}

func NewEmailSender(host, port, from string) *EmailSender {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@crm.local"
	}
	return &EmailSender{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

func (s *EmailSender) Send(to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
