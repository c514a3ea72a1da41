// Package mail sends transactional email through SendGrid. Every outgoing
// message is first written to the send_email_request outbox so a failed
// send is retried by the worker.
package mail

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

type Config struct {
	APIKey         string        `mapstructure:"sendgrid_api_key"`
	FromEmail      string        `mapstructure:"from_email"`
	FromName       string        `mapstructure:"from_email_name"`
	ReplyTo        string        `mapstructure:"reply_to"`
	WorkerInterval time.Duration `mapstructure:"worker_interval"`
}

type Mailer struct {
	cli            *sendgrid.Client
	mailRepository dependency.Mail
	from           *sgmail.Email
	c              *Config
	ctx            context.Context
	cancel         context.CancelFunc
	templates      map[string]*template.Template
}

func New(c *Config, mailRepository dependency.Mail) (dependency.Mailer, error) {
	if c.APIKey == "" || c.FromEmail == "" || c.FromName == "" {
		return nil, fmt.Errorf("incomplete config: %+v", c)
	}

	m := &Mailer{
		cli:            sendgrid.NewSendClient(c.APIKey),
		mailRepository: mailRepository,
		from:           sgmail.NewEmail(c.FromName, c.FromEmail),
		c:              c,
		templates:      make(map[string]*template.Template),
	}

	if err := m.parseTemplates(); err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	return m, nil
}

func (m *Mailer) parseTemplates() error {
	templateDir := "templates"

	dirEntries, err := templatesFS.ReadDir(templateDir)
	if err != nil {
		return fmt.Errorf("error reading template directory: %w", err)
	}

	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}

		templatePath := filepath.Join(templateDir, entry.Name())

		tmpl, err := template.ParseFS(templatesFS, templatePath)
		if err != nil {
			return fmt.Errorf("error parsing template '%s': %w", entry.Name(), err)
		}

		m.templates[entry.Name()] = tmpl
	}

	return nil
}

// buildMail renders the template into an outbox row.
func (m *Mailer) buildMail(to, subject, tn string, data interface{}) (*entity.SendEmailRequest, error) {
	tmpl, ok := m.templates[tn]
	if !ok {
		return nil, fmt.Errorf("template not found: %v", tn)
	}

	body := &strings.Builder{}
	if err := tmpl.Execute(body, data); err != nil {
		return nil, fmt.Errorf("error executing template: %w", err)
	}

	return &entity.SendEmailRequest{
		From:    m.c.FromEmail,
		To:      to,
		Html:    body.String(),
		Subject: subject,
		ReplyTo: m.c.ReplyTo,
	}, nil
}

func (m *Mailer) send(ctx context.Context, ser *entity.SendEmailRequest) error {
	if ser.To == "" || ser.Subject == "" || ser.Html == "" {
		return gerr.BadMailRequest
	}

	msg := sgmail.NewSingleEmail(m.from, ser.Subject, sgmail.NewEmail("", ser.To), "", ser.Html)
	if ser.ReplyTo != "" {
		msg.SetReplyTo(sgmail.NewEmail("", ser.ReplyTo))
	}

	resp, err := m.cli.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return gerr.MailApiLimitReached
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("error sending email bad status code: %s, status code: %d", resp.Body, resp.StatusCode)
	}

	return nil
}

// sendWithInsert writes the mail to the outbox and attempts an immediate
// send. A failed send is left for the worker to retry.
func (m *Mailer) sendWithInsert(ctx context.Context, rep dependency.Repository, ser *entity.SendEmailRequest) error {
	id, err := rep.Mail().AddMail(ctx, ser)
	if err != nil {
		return fmt.Errorf("error inserting email: %w", err)
	}

	err = m.send(ctx, ser)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't send mail",
			slog.String("err", err.Error()),
		)
		return nil
	}

	err = rep.Mail().UpdateSent(ctx, id)
	if err != nil {
		return fmt.Errorf("error updating email: %w", err)
	}

	return nil
}
