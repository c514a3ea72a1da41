package mail

import (
	"context"
	"fmt"

	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/entity"
	"github.com/peepeep/peepeep-manager/internal/i18n"
)

const (
	ProviderVerification = "provider_verification_%s.gohtml"
	WaitlistWelcome      = "waitlist_welcome_%s.gohtml"
	ContactReceived      = "contact_received_%s.gohtml"
)

// localizedTemplate picks the language variant of a template, falling back
// to english for unsupported languages.
func localizedTemplate(pattern, lang string) string {
	l := i18n.Parse(lang)
	return fmt.Sprintf(pattern, string(l))
}

// SendProviderVerification sends the email verification link to a new
// provider signup.
func (m *Mailer) SendProviderVerification(ctx context.Context, rep dependency.Repository, to, name, verifyURL, lang string) error {
	if to == "" || verifyURL == "" {
		return fmt.Errorf("incomplete verification mail request: to %q", to)
	}

	l := i18n.Parse(lang)
	ser, err := m.buildMail(to, i18n.T(l, "mail_verify_subject"), localizedTemplate(ProviderVerification, lang), struct {
		Name      string
		VerifyURL string
	}{Name: name, VerifyURL: verifyURL})
	if err != nil {
		return err
	}

	return m.sendWithInsert(ctx, rep, ser)
}

// SendWaitlistWelcome sends the welcome email with the status page link.
func (m *Mailer) SendWaitlistWelcome(ctx context.Context, rep dependency.Repository, to, name, statusURL, lang string) error {
	if to == "" || statusURL == "" {
		return fmt.Errorf("incomplete welcome mail request: to %q", to)
	}

	l := i18n.Parse(lang)
	ser, err := m.buildMail(to, i18n.T(l, "mail_welcome_subject"), localizedTemplate(WaitlistWelcome, lang), struct {
		Name      string
		StatusURL string
	}{Name: name, StatusURL: statusURL})
	if err != nil {
		return err
	}

	return m.sendWithInsert(ctx, rep, ser)
}

// SendContactReceived acknowledges a contact form submission.
func (m *Mailer) SendContactReceived(ctx context.Context, rep dependency.Repository, req *entity.ContactRequest, lang string) error {
	if req.Email == "" {
		return fmt.Errorf("incomplete contact mail request: %+v", req)
	}

	l := i18n.Parse(lang)
	ser, err := m.buildMail(req.Email, i18n.T(l, "mail_contact_subject"), localizedTemplate(ContactReceived, lang), struct {
		Subject string
		Message string
	}{Subject: req.Subject, Message: req.Message})
	if err != nil {
		return err
	}

	return m.sendWithInsert(ctx, rep, ser)
}
