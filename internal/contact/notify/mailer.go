package notify

import (
	"context"
	"fmt"
	netmail "net/mail"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
)

// SMTPConfig is the transport configuration for operator notifications.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the envelope sender. Defaults to Username.
	From string
	// To is the operator mailbox that receives every submission.
	To      string
	Timeout time.Duration
}

// Sender delivers prepared messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer emails the operator about accepted submissions. Each Send makes
// exactly one delivery attempt.
type Mailer struct {
	cfg    SMTPConfig
	sender Sender
}

// NewSMTPMailer builds a Mailer backed by a real SMTP client.
// Port 465 uses implicit TLS, other ports upgrade with STARTTLS when offered.
func NewSMTPMailer(cfg SMTPConfig) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return NewMailer(cfg, client), nil
}

// NewMailer wires a Mailer to an arbitrary Sender.
func NewMailer(cfg SMTPConfig, sender Sender) *Mailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Mailer{cfg: cfg, sender: sender}
}

// Send delivers the notification for s. Failures come back as
// *domain.NotificationError; the caller decides what that means for the request.
func (m *Mailer) Send(ctx context.Context, s *domain.Submission) error {
	msg, err := m.BuildMessage(s)
	if err != nil {
		return &domain.NotificationError{SubmissionID: s.ID, Err: err}
	}
	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return &domain.NotificationError{SubmissionID: s.ID, Err: err}
	}
	return nil
}

// BuildMessage assembles the operator email for s.
func (m *Mailer) BuildMessage(s *domain.Submission) (*mail.Msg, error) {
	msg := mail.NewMsg()
	sender := netmail.Address{Name: s.Name, Address: m.cfg.From}
	if err := msg.From(sender.String()); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid operator address: %w", err)
	}
	// The visitor's address is not strictly validated; an unparsable one
	// still shows up in the body, it just can't be replied to directly.
	_ = msg.ReplyTo(s.Email)

	msg.Subject(Subject(s))
	msg.SetGenHeader(mail.Header("X-Submission-Id"), s.ID)
	msg.SetDate()
	msg.SetMessageID()

	text, err := RenderText(s)
	if err != nil {
		return nil, err
	}
	html, err := RenderHTML(s)
	if err != nil {
		return nil, err
	}
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	return msg, nil
}
