// Package email sends the institute's notification mails over SMTP.
package email

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/institut/vitrine/internal/config"
	"github.com/institut/vitrine/internal/pkg/logger"
)

// ErrNotConfigured is returned when no SMTP host, sender or recipient is set;
// the mail is skipped, not failed.
var ErrNotConfigured = errors.New("smtp notifications not configured")

// Notifier defines the mails the catalog sends
type Notifier interface {
	// NotifyEnquiry tells the institute's inbox about a visitor message.
	NotifyEnquiry(ctx context.Context, e Enquiry) error
	SendNewsletterWelcome(ctx context.Context, toEmail, toName string) error
}

// Enquiry is what the institute's inbox learns about a visitor message
type Enquiry struct {
	PreInscription bool
	Nom            string
	Email          string
	Telephone      string
	Ville          string
	Sujet          string
	Disponibilites string
	FormationNom   string
	Message        string
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string // empty for an unauthenticated relay
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool   // implicit TLS, usually port 465
	NotifyTo  string // inbox receiving enquiry notifications
	Timeout   time.Duration
}

// ConfigFromApp maps the mail section of the application configuration
func ConfigFromApp(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		FromName:  cfg.Mail.FromName,
		FromEmail: cfg.Mail.FromEmail,
		UseTLS:    cfg.Mail.UseTLS,
		NotifyTo:  cfg.Mail.NotifyTo,
		Timeout:   cfg.Mail.Timeout,
	}
}

// deliverFunc hands a complete message to the SMTP server
type deliverFunc func(ctx context.Context, msg *mail.Msg) error

// Service implements Notifier over SMTP
type Service struct {
	config  SMTPConfig
	deliver deliverFunc
	now     func() time.Time
}

var _ Notifier = (*Service)(nil)

// NewService creates a Service
func NewService(cfg SMTPConfig) *Service {
	s := &Service{config: cfg, now: time.Now}
	s.deliver = s.dial
	return s
}

// NewFromConfig creates a Service from the application configuration
func NewFromConfig(cfg *config.Config) *Service {
	return NewService(ConfigFromApp(cfg))
}

var enquiryTemplate = template.Must(template.New("enquiry").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">{{if .PreInscription}}Nouvelle pré-inscription{{else}}Nouveau message de contact{{end}}</h2>
		<table cellpadding="4">
			<tr><td><strong>Nom</strong></td><td>{{.Nom}}</td></tr>
			<tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
			{{with .Telephone}}<tr><td><strong>Téléphone</strong></td><td>{{.}}</td></tr>{{end}}
			{{with .Ville}}<tr><td><strong>Ville</strong></td><td>{{.}}</td></tr>{{end}}
			{{with .FormationNom}}<tr><td><strong>Formation</strong></td><td>{{.}}</td></tr>{{end}}
			{{with .Sujet}}<tr><td><strong>Sujet</strong></td><td>{{.}}</td></tr>{{end}}
			{{with .Disponibilites}}<tr><td><strong>Disponibilités</strong></td><td>{{.}}</td></tr>{{end}}
		</table>
		<p style="white-space: pre-line;">{{.Message}}</p>
	</div>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Bienvenue !</h2>
		<p>Bonjour{{with .}} {{.}}{{end}},</p>
		<p>Votre inscription à la newsletter de l'institut est confirmée. Vous recevrez nos nouvelles formations et nos événements.</p>
		<p>À bientôt,<br>L'équipe de l'institut</p>
	</div>
</body>
</html>`))

// NotifyEnquiry mails the enquiry to NotifyTo with the visitor as Reply-To
func (s *Service) NotifyEnquiry(ctx context.Context, e Enquiry) error {
	if s.config.NotifyTo == "" {
		return ErrNotConfigured
	}

	subject := "Nouveau message de contact : " + firstNonBlank(e.Sujet, e.Nom)
	if e.PreInscription {
		subject = "Nouvelle pré-inscription : " + firstNonBlank(e.FormationNom, e.Nom)
	}
	return s.sendHTMLEmail(ctx, s.config.NotifyTo, &e, subject, enquiryTemplate, e)
}

// SendNewsletterWelcome confirms a newsletter subscription to the subscriber
func (s *Service) SendNewsletterWelcome(ctx context.Context, toEmail, toName string) error {
	return s.sendHTMLEmail(ctx, toEmail, nil, "Bienvenue dans la newsletter de l'institut", welcomeTemplate, strings.TrimSpace(toName))
}

// sendHTMLEmail builds the message and delivers it; replyTo, when set, names the visitor
func (s *Service) sendHTMLEmail(ctx context.Context, toEmail string, replyTo *Enquiry, subject string, tpl *template.Template, data any) error {
	log := logger.WithFields(map[string]interface{}{
		"component": "email",
		"to":        toEmail,
		"subject":   subject,
	})

	// Without a server or a sender the mail is only logged (development setups)
	if s.config.Host == "" || s.config.FromEmail == "" {
		log.Warn().Msg("SMTP not configured - notification mail not sent")
		return ErrNotConfigured
	}

	msg, err := s.compose(toEmail, replyTo, subject, tpl, data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build email")
		return err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	if err := s.deliver(ctx, msg); err != nil {
		log.Error().Err(err).Str("server", s.config.Host).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Msg("Notification mail sent")
	return nil
}

// compose sets the envelope headers and renders the HTML body
func (s *Service) compose(toEmail string, replyTo *Enquiry, subject string, tpl *template.Template, data any) (*mail.Msg, error) {
	// 8bit keeps the HTML body readable; headers are still Q-encoded
	m := mail.NewMsg(mail.WithEncoding(mail.NoEncoding))

	// Set sender and recipient
	if err := m.FromFormat(s.config.FromName, s.config.FromEmail); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(toEmail); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if replyTo != nil && replyTo.Email != "" {
		if err := m.ReplyToFormat(replyTo.Nom, replyTo.Email); err != nil {
			return nil, fmt.Errorf("invalid reply-to: %w", err)
		}
	}

	// runs of whitespace, CR and LF included, collapse to one space
	m.Subject(strings.Join(strings.Fields(subject), " "))
	m.SetDateWithValue(s.now())

	if err := m.SetBodyHTMLTemplate(tpl, data); err != nil {
		return nil, fmt.Errorf("render %s mail: %w", tpl.Name(), err)
	}
	return m, nil
}

// dial delivers msg through the configured server
func (s *Service) dial(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{mail.WithPort(s.config.Port)}
	if s.config.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.config.Timeout))
	}

	// Set up authentication information
	if s.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
		)
	}

	// Implicit TLS, or STARTTLS when the server offers it
	if s.config.UseTLS {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(s.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", s.config.Host, s.config.Port, err)
	}
	return nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
