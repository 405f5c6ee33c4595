package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPSender delivers alert emails over SMTP with plain auth.
type SMTPSender struct {
	host     string
	port     string
	from     string
	password string
}

func NewSMTPSender(host, port, from, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		from:     from,
		password: password,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{Success: false, Detail: err.Error()}, err
	}

	payload := []byte("From: " + s.from + "\r\n" +
		"To: " + msg.RecipientName + " <" + msg.RecipientEmail + ">\r\n" +
		"Subject: " + msg.Subject + "\r\n" +
		"MIME-version: 1.0;\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\";\r\n\r\n" +
		msg.Body)

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{msg.RecipientEmail}, payload); err != nil {
		return Outcome{Success: false, Detail: err.Error()}, fmt.Errorf("send email: %w", err)
	}
	return Outcome{Success: true, Detail: "Email delivered via SMTP."}, nil
}
