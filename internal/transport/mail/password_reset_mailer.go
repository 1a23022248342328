package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// PasswordResetMailer delivers reset codes over SMTP. The code is the only
// secret that leaves the process, and only to the account's own address.
type PasswordResetMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewPasswordResetMailer(host string, port int, username, password, from string) *PasswordResetMailer {
	return &PasswordResetMailer{
		dialer: gomail.NewDialer(strings.TrimSpace(host), port, username, password),
		from:   strings.TrimSpace(from),
	}
}

func (m *PasswordResetMailer) SendPasswordReset(ctx context.Context, email, code string) error {
	if m == nil || m.dialer.Host == "" || m.dialer.Port == 0 || m.from == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your password reset code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Use the following code to reset your password: %s\n\nThe code expires in 30 minutes. If you did not request this, ignore this email.",
		code,
	))

	return m.dialer.DialAndSend(msg)
}
