package smtp

import (
	"context"
	"fmt"
	"net/smtp"
)

// Mailer sends one-time codes through a plain SMTP relay. No retry logic.
type Mailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewMailer(host, port, username, password, from string) *Mailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &Mailer{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}
}

func (m *Mailer) SendOTP(_ context.Context, email, code string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your login code\r\n\r\nYour one-time login code is %s. It expires in 5 minutes.\r\n",
		m.from, email, code)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
