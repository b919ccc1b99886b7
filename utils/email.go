package utils

import (
	"Go_Stow/config"
	"Go_Stow/internal/logging"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

var ErrSMTPConfigMissing = errors.New("smtp config missing")

// SMTPMailer delivers mail directly through an SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	user     string
	pass     string
	from     string
	useTLS   bool
	startTLS bool
}

// NewSMTPMailer builds a mailer from configuration.
func NewSMTPMailer(cfg config.Config) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" || cfg.SMTPFrom == "" {
		return nil, ErrSMTPConfigMissing
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		pass:     cfg.SMTPPass,
		from:     cfg.SMTPFrom,
		useTLS:   cfg.SMTPTLS || cfg.SMTPPort == "465",
		startTLS: cfg.SMTPStartTLS,
	}, nil
}

// VerificationMail builds the message carrying a signup verification code.
func VerificationMail(from, to, code string) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = "Email verification code"
	e.Text = []byte(fmt.Sprintf("Enter the following 6-digit code to finish signing up: %s\n", code))
	e.HTML = []byte(`
		<h2>Welcome</h2>
		<p>Enter the following 6-digit code to finish signing up:</p>
		<p style="font-size:24px;letter-spacing:4px"><b>` + code + `</b></p>
	`)
	return e
}

// SendVerificationCode mails code to the given address.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := VerificationMail(m.from, to, code)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	tlsConfig := &tls.Config{ServerName: m.host}

	if m.useTLS {
		return e.SendWithTLS(addr, auth, tlsConfig)
	}
	if m.startTLS {
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	}
	return e.Send(addr, auth)
}

// LogMailer writes verification codes to the log instead of sending them.
type LogMailer struct{}

// SendVerificationCode logs the code.
func (LogMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	logging.L().Info("verification code", "to", to, "code", code)
	return nil
}
