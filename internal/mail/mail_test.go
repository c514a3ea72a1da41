package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T) *Mailer {
	m, err := New(&Config{
		APIKey:         "SG.test",
		FromEmail:      "hello@peepeep.com",
		FromName:       "Peepeep",
		ReplyTo:        "support@peepeep.com",
		WorkerInterval: time.Minute,
	}, nil)
	require.NoError(t, err)
	return m.(*Mailer)
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	_, err := New(&Config{FromEmail: "hello@peepeep.com"}, nil)
	assert.Error(t, err)
}

func TestTemplatesParse(t *testing.T) {
	m := newTestMailer(t)

	for _, name := range []string{
		"provider_verification_en.gohtml",
		"provider_verification_fr.gohtml",
		"waitlist_welcome_en.gohtml",
		"waitlist_welcome_fr.gohtml",
		"contact_received_en.gohtml",
		"contact_received_fr.gohtml",
	} {
		_, ok := m.templates[name]
		assert.True(t, ok, "missing template %s", name)
	}
}

func TestBuildMail(t *testing.T) {
	m := newTestMailer(t)

	ser, err := m.buildMail("to@mail.test", "Verify your Peepeep provider account",
		"provider_verification_en.gohtml", struct {
			Name      string
			VerifyURL string
		}{Name: "Jane", VerifyURL: "https://peepeep.com/verify?x=1"})
	require.NoError(t, err)

	assert.Equal(t, "hello@peepeep.com", ser.From)
	assert.Equal(t, "to@mail.test", ser.To)
	assert.Equal(t, "support@peepeep.com", ser.ReplyTo)
	assert.True(t, strings.Contains(ser.Html, "Jane"))
	assert.True(t, strings.Contains(ser.Html, "https://peepeep.com/verify?x=1"))

	_, err = m.buildMail("to@mail.test", "x", "no_such_template.gohtml", nil)
	assert.Error(t, err)
}

func TestLocalizedTemplate(t *testing.T) {
	assert.Equal(t, "waitlist_welcome_en.gohtml", localizedTemplate(WaitlistWelcome, "en"))
	assert.Equal(t, "waitlist_welcome_fr.gohtml", localizedTemplate(WaitlistWelcome, "fr-CA"))
	assert.Equal(t, "waitlist_welcome_en.gohtml", localizedTemplate(WaitlistWelcome, "de"))
	assert.Equal(t, "contact_received_fr.gohtml", localizedTemplate(ContactReceived, "fr"))
}
