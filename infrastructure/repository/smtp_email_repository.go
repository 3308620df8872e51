package repository

import (
	"github.com/wneessen/go-mail"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/infrastructure/config"
)

// SMTPEmailRepository delivers notification emails over SMTP. One message per
// Send; the client reconnects each time because sends are minutes apart.
type SMTPEmailRepository struct {
	cfg *config.SMTPConfig
}

// NewSMTPEmailRepository creates a new SMTP email repository. A nil config or
// empty host yields a repository that reports itself unconfigured.
func NewSMTPEmailRepository(cfg *config.SMTPConfig) repository.EmailRepository {
	return &SMTPEmailRepository{
		cfg: cfg,
	}
}

// IsConfigured reports whether an SMTP transport is set up
func (r *SMTPEmailRepository) IsConfigured() bool {
	return r.cfg != nil && r.cfg.Host != "" && r.cfg.From != "" && len(r.cfg.To) > 0
}

// Send delivers a plain-text notification email to every configured recipient
func (r *SMTPEmailRepository) Send(subject string, body string) error {
	if !r.IsConfigured() {
		return domain.ErrNotification("email", "smtp transport is not configured")
	}

	msg := mail.NewMsg()
	if err := msg.From(r.cfg.From); err != nil {
		return domain.ErrNotificationWithCause("email", err)
	}
	if err := msg.To(r.cfg.To...); err != nil {
		return domain.ErrNotificationWithCause("email", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := r.newClient()
	if err != nil {
		return domain.ErrNotificationWithCause("email", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return domain.ErrNotificationWithCause("email", err)
	}

	return nil
}

// newClient builds an SMTP client from the configuration. STARTTLS is
// opportunistic by default; UseTLS switches to implicit TLS for servers that
// only speak SMTPS.
func (r *SMTPEmailRepository) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(r.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if r.cfg.UseTLS {
		opts = append(opts, mail.WithSSLPort(false))
	}

	if r.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(r.cfg.Username),
			mail.WithPassword(r.cfg.Password),
		)
	}

	return mail.NewClient(r.cfg.Host, opts...)
}
