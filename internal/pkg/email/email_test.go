package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	netmail "net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/institut/vitrine/internal/config"
)

// outbox collects the rendered messages handed to the server
type outbox struct {
	mails []*netmail.Message
	rcpts [][]string
}

func newTestService(t *testing.T, cfg SMTPConfig) (*Service, *outbox) {
	t.Helper()
	box := &outbox{}
	s := NewService(cfg)
	s.now = func() time.Time { return time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC) }
	s.deliver = func(_ context.Context, m *mail.Msg) error {
		rcpts, err := m.GetRecipients()
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = m.WriteTo(&buf)
		require.NoError(t, err)
		parsed, err := netmail.ReadMessage(&buf)
		require.NoError(t, err)
		box.mails = append(box.mails, parsed)
		box.rcpts = append(box.rcpts, rcpts)
		return nil
	}
	return s, box
}

func testConfig() SMTPConfig {
	return SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		FromName:  "Institut",
		FromEmail: "noreply@institut.example",
		NotifyTo:  "contact@institut.example",
	}
}

func decodedHeader(t *testing.T, m *netmail.Message, key string) string {
	t.Helper()
	v, err := new(mime.WordDecoder).DecodeHeader(m.Header.Get(key))
	require.NoError(t, err)
	return v
}

func body(t *testing.T, m *netmail.Message) string {
	t.Helper()
	b, err := io.ReadAll(m.Body)
	require.NoError(t, err)
	return string(b)
}

func TestNotifyPreInscription(t *testing.T) {
	s, box := newTestService(t, testConfig())

	err := s.NotifyEnquiry(context.Background(), Enquiry{
		PreInscription: true,
		Nom:            "Awa Diop",
		Email:          "awa@example.com",
		Telephone:      "+221771234567",
		FormationNom:   "Pâtisserie française",
		Message:        "Je souhaite m'inscrire <b>vite</b>",
	})
	require.NoError(t, err)
	require.Len(t, box.mails, 1)

	got := box.mails[0]
	assert.Equal(t, []string{"contact@institut.example"}, box.rcpts[0])

	from, err := netmail.ParseAddress(got.Header.Get("From"))
	require.NoError(t, err)
	assert.Equal(t, "Institut", from.Name)
	assert.Equal(t, "noreply@institut.example", from.Address)

	replyTo, err := netmail.ParseAddress(got.Header.Get("Reply-To"))
	require.NoError(t, err)
	assert.Equal(t, "awa@example.com", replyTo.Address)

	assert.Equal(t, "Nouvelle pré-inscription : Pâtisserie française", decodedHeader(t, got, "Subject"))
	date, err := got.Header.Date()
	require.NoError(t, err)
	assert.True(t, date.Equal(time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC)))

	html := body(t, got)
	assert.Contains(t, html, "Nouvelle pré-inscription")
	assert.Contains(t, html, "Pâtisserie française")
	assert.Contains(t, html, "&lt;b&gt;vite&lt;/b&gt;", "visitor text is escaped")
	assert.NotContains(t, html, "Ville")
}

func TestSubjectCannotInjectHeaders(t *testing.T) {
	s, box := newTestService(t, testConfig())

	err := s.NotifyEnquiry(context.Background(), Enquiry{
		Nom:     "Awa",
		Email:   "awa@example.com",
		Sujet:   "Horaires\r\nBcc: victim@example.com",
		Message: "Bonjour, quels sont vos horaires ?",
	})
	require.NoError(t, err)

	got := box.mails[0]
	assert.Empty(t, got.Header.Get("Bcc"))
	assert.Equal(t, []string{"contact@institut.example"}, box.rcpts[0])
	assert.Equal(t, "Nouveau message de contact : Horaires Bcc: victim@example.com", decodedHeader(t, got, "Subject"))
}

func TestNewsletterWelcome(t *testing.T) {
	s, box := newTestService(t, testConfig())

	require.NoError(t, s.SendNewsletterWelcome(context.Background(), "awa@example.com", "Awa"))
	got := box.mails[0]
	assert.Equal(t, []string{"awa@example.com"}, box.rcpts[0])
	assert.Contains(t, body(t, got), "Bonjour Awa,")
	assert.Empty(t, got.Header.Get("Reply-To"))
}

func TestUnconfiguredMailIsSkipped(t *testing.T) {
	s, box := newTestService(t, SMTPConfig{})
	err := s.SendNewsletterWelcome(context.Background(), "awa@example.com", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, box.mails)

	cfg := testConfig()
	cfg.NotifyTo = ""
	s, box = newTestService(t, cfg)
	err = s.NotifyEnquiry(context.Background(), Enquiry{Nom: "Awa", Email: "awa@example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, box.mails)
}

func TestDeliveryFailureIsWrapped(t *testing.T) {
	s := NewService(testConfig())
	s.deliver = func(context.Context, *mail.Msg) error { return errors.New("connection refused") }

	err := s.SendNewsletterWelcome(context.Background(), "awa@example.com", "Awa")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestInvalidRecipientIsNotSent(t *testing.T) {
	s, box := newTestService(t, testConfig())

	err := s.SendNewsletterWelcome(context.Background(), "pas une adresse", "")
	require.Error(t, err)
	assert.Empty(t, box.mails)
}

func TestConfigFromApp(t *testing.T) {
	cfg := config.Default()
	cfg.Mail.Host = "smtp.example.com"
	cfg.Mail.NotifyTo = "contact@institut.example"

	smtpCfg := ConfigFromApp(cfg)
	assert.Equal(t, "smtp.example.com", smtpCfg.Host)
	assert.Equal(t, 587, smtpCfg.Port)
	assert.Equal(t, "contact@institut.example", smtpCfg.NotifyTo)
	assert.Equal(t, 10*time.Second, smtpCfg.Timeout)
}
