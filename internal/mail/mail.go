// Package mail sends outbound email using a user's stored SMTP preferences.
package mail

import (
	"bytes"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// sendTimeout bounds the whole dial/auth/send exchange.
const sendTimeout = 30 * time.Second

// Config carries the SMTP connection parameters for one send. The password
// is supplied per request and never persisted with the user's settings.
type Config struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

// Attachment is one file to attach to an outgoing message.
type Attachment struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Sender delivers messages over SMTP.
type Sender interface {
	Send(cfg Config, to, subject, body string, attachments []Attachment) error
}

// SMTPSender is the production Sender.
type SMTPSender struct{}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender() *SMTPSender {
	return &SMTPSender{}
}

// Send delivers one message. When encryption is requested and the port is
// 465 the connection is TLS from the start; otherwise it connects plain and
// upgrades via STARTTLS if encryption is requested. Failures are returned to
// the caller uncategorized.
func (s *SMTPSender) Send(cfg Config, to, subject, body string, attachments []Attachment) error {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(sendTimeout),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	}

	switch {
	case cfg.UseTLS && cfg.Port == 465:
		opts = append(opts, gomail.WithSSL())
	case cfg.UseTLS:
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	default:
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.NoTLS))
	}

	client, err := gomail.NewClient(cfg.Server, opts...)
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	for _, a := range attachments {
		mimeType := a.MIMEType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Data),
			gomail.WithFileContentType(gomail.ContentType(mimeType))); err != nil {
			return err
		}
	}

	return client.DialAndSend(msg)
}
