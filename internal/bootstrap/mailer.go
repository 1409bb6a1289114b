package bootstrap

import (
	"github.com/oakline-signs/site-backend/config"
	"github.com/oakline-signs/site-backend/internal/contact/notify"
)

func NewMailer(cfg *config.SMTPConfig) (*notify.Mailer, error) {
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
		To:       cfg.ContactEmail,
		Timeout:  cfg.Timeout,
	})
}
